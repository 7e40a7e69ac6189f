package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kuanb/gosm-geo/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geotool",
	Short: "Great-circle distances, unit conversion and point-in-polygon tests",
	Long: `geotool computes haversine and spherical-law-of-cosines distances between
latitude/longitude points, converts between kilometers, statute miles and
nautical miles, and tests points against polygons. It can also serve the same
operations over HTTP and filter OpenStreetMap PBF nodes by polygon or radius.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.AddCommand(serveCmd, distanceCmd, convertCmd, containsCmd, extractCmd)
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = initLogger(cfg.Logging, cmd.ErrOrStderr())
	return nil
}

// initLogger writes to w so command output on stdout stays machine readable
func initLogger(lc config.LoggingConfig, w io.Writer) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	output := w
	if lc.Format != "json" {
		output = zerolog.ConsoleWriter{Out: w, NoColor: lc.NoColor}
	}

	l := zerolog.New(output).Level(level).With().Timestamp().Str("service", "geotool").Logger()
	return &l
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
