package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kuanb/gosm-geo/geom"
	"kuanb/gosm-geo/guard"
)

var (
	distanceUnit   string
	distanceMethod string
)

var distanceCmd = &cobra.Command{
	Use:   "distance LAT1 LON1 LAT2 LON2",
	Short: "Print the great-circle distance between two points",
	Args:  cobra.ExactArgs(4),
	RunE:  runDistance,
}

func init() {
	distanceCmd.Flags().StringVarP(&distanceUnit, "unit", "u", "", "nm, km or mi (default from config)")
	distanceCmd.Flags().StringVarP(&distanceMethod, "method", "m", "haversine", "haversine or simplified")
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// resolveUnit falls back to the configured default when name is empty
func resolveUnit(name string) (geom.DistanceUnit, error) {
	if name == "" {
		return cfg.Geo.Unit()
	}
	return geom.ParseDistanceUnit(name)
}

func runDistance(cmd *cobra.Command, args []string) error {
	values, err := parseFloats(args)
	if err != nil {
		return err
	}
	unit, err := resolveUnit(distanceUnit)
	if err != nil {
		return err
	}

	from := geom.NewPoint(values[0], values[1])
	to := geom.NewPoint(values[2], values[3])
	g := guard.Guard{MaxPolygonVertices: cfg.Geo.MaxPolygonVertices}

	var d float64
	switch distanceMethod {
	case "haversine":
		if cfg.Geo.Strict {
			d, err = g.Haversine(from, to, unit)
		} else {
			d = geom.HaversineBetween(from, to, unit)
		}
	case "simplified":
		if cfg.Geo.Strict {
			d, err = g.SimplifiedDistance(from, to, unit)
		} else {
			d = geom.SimplifiedDistanceBetween(from, to, unit)
		}
	default:
		return fmt.Errorf("unknown method %q", distanceMethod)
	}
	if err != nil {
		return err
	}

	logger.Debug().Str("method", distanceMethod).Str("unit", unit.Symbol()).Float64("distance", d).Msg("Computed distance")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.6f %s\n", d, unit.Symbol())
	return err
}
