package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kuanb/gosm-geo/geom"
	"kuanb/gosm-geo/guard"
)

var containsPolygon string

var containsCmd = &cobra.Command{
	Use:   "contains LAT LON",
	Short: "Report whether a point lies inside a GeoJSON polygon",
	Args:  cobra.ExactArgs(2),
	RunE:  runContains,
}

func init() {
	containsCmd.Flags().StringVarP(&containsPolygon, "polygon", "p", "", "GeoJSON file holding the polygon")
	_ = containsCmd.MarkFlagRequired("polygon")
}

func loadPolygon(path string) ([]geom.GeoPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read polygon: %w", err)
	}
	polygon, err := geom.DecodePolygon(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Geo.Strict {
		g := guard.Guard{MaxPolygonVertices: cfg.Geo.MaxPolygonVertices}
		if err := g.Polygon(polygon); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return polygon, nil
}

func runContains(cmd *cobra.Command, args []string) error {
	values, err := parseFloats(args)
	if err != nil {
		return err
	}
	polygon, err := loadPolygon(containsPolygon)
	if err != nil {
		return err
	}

	point := geom.NewPoint(values[0], values[1])
	var inside bool
	if cfg.Geo.Strict {
		g := guard.Guard{MaxPolygonVertices: cfg.Geo.MaxPolygonVertices}
		inside, err = g.PointInPolygon(point, polygon)
		if err != nil {
			return err
		}
	} else {
		inside = geom.PointInGeoPolygon(point, polygon)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), inside)
	return err
}
