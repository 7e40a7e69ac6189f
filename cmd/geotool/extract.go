package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kuanb/gosm-geo/geom"
	"kuanb/gosm-geo/guard"
	"kuanb/gosm-geo/osm"
)

var (
	extractPBF     string
	extractPolygon string
	extractOut     string
	extractNear    []float64
	extractRadius  float64
	extractUnit    string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write the OSM nodes inside a polygon or radius as GeoJSON points",
	Example: `  geotool extract --pbf sofia.osm.pbf --polygon center.geojson --out nodes.geojson
  geotool extract --pbf sofia.osm.pbf --near 42.69,23.33 --radius 2 --unit km`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&extractPBF, "pbf", "", "OSM PBF file to read")
	f.StringVarP(&extractPolygon, "polygon", "p", "", "GeoJSON file holding the polygon to keep")
	f.Float64SliceVar(&extractNear, "near", nil, "LAT,LON center for --radius")
	f.Float64Var(&extractRadius, "radius", 0, "keep nodes at most this far from --near")
	f.StringVarP(&extractUnit, "unit", "u", "", "unit of --radius: nm, km or mi (default from config)")
	f.StringVarP(&extractOut, "out", "o", "", "output file (default stdout)")
	_ = extractCmd.MarkFlagRequired("pbf")
	extractCmd.MarkFlagsRequiredTogether("near", "radius")
	extractCmd.MarkFlagsOneRequired("polygon", "near")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var predicates []osm.Predicate

	if extractPolygon != "" {
		polygon, err := loadPolygon(extractPolygon)
		if err != nil {
			return err
		}
		predicates = append(predicates, osm.InPolygon(polygon))
	}

	if len(extractNear) > 0 {
		if len(extractNear) != 2 {
			return fmt.Errorf("--near takes LAT,LON, got %d values", len(extractNear))
		}
		center := geom.NewPoint(extractNear[0], extractNear[1])
		if cfg.Geo.Strict {
			if err := guard.CheckPoint(center); err != nil {
				return fmt.Errorf("--near: %w", err)
			}
		}
		unit, err := resolveUnit(extractUnit)
		if err != nil {
			return err
		}
		predicates = append(predicates, osm.WithinRadius(center, extractRadius, unit))
	}

	nodes, stats, err := osm.NewExtractor(logger).ExtractFile(cmd.Context(), extractPBF, osm.All(predicates...))
	if err != nil {
		return err
	}

	data, err := osm.Collection(nodes)
	if err != nil {
		return fmt.Errorf("encode nodes: %w", err)
	}

	if extractOut == "" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(extractOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", extractOut, err)
	}
	logger.Info().Str("out", extractOut).Uint64("kept", stats.Kept).Msg("Wrote nodes")
	return nil
}
