package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kuanb/gosm-geo/api"
)

var (
	convertFrom string
	convertTo   string
)

var convertCmd = &cobra.Command{
	Use:   "convert VALUE",
	Short: "Convert between km, mi and nm, or between deg and rad",
	Example: `  geotool convert 80 --from km --to nm
  geotool convert 180 --from deg --to rad`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "source unit: nm, km, mi, deg or rad")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target unit: nm, km, mi, deg or rad")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	converted, unit, err := api.Convert(value, convertFrom, convertTo)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.6f %s\n", converted, unit)
	return err
}
