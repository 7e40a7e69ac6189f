package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrNoPolygon is returned when a GeoJSON document carries no polygon
var ErrNoPolygon = errors.New("no polygon found in GeoJSON")

// DecodePolygon returns the outer ring of the first Polygon, or of the first
// polygon of a MultiPolygon, found in a FeatureCollection, Feature or Geometry
func DecodePolygon(data []byte) ([]GeoPoint, error) {
	geometries, err := decodeGeometries(data)
	if err != nil {
		return nil, err
	}
	for _, g := range geometries {
		if ring, ok := outerRing(g); ok {
			return RingFromOrb(ring), nil
		}
	}
	return nil, ErrNoPolygon
}

// DecodePoints returns every Point and MultiPoint member in document order
func DecodePoints(data []byte) ([]GeoPoint, error) {
	geometries, err := decodeGeometries(data)
	if err != nil {
		return nil, err
	}
	var points []GeoPoint
	for _, g := range geometries {
		switch g := g.(type) {
		case orb.Point:
			points = append(points, FromOrb(g))
		case orb.MultiPoint:
			for _, p := range g {
				points = append(points, FromOrb(p))
			}
		}
	}
	return points, nil
}

// PointsCollection builds a FeatureCollection with one Point feature per point.
// props may be nil; otherwise it supplies the properties of the i-th feature
func PointsCollection(points []GeoPoint, props func(i int) map[string]any) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, p := range points {
		f := geojson.NewFeature(p.Orb())
		if props != nil {
			f.Properties = props(i)
		}
		fc.Append(f)
	}
	return fc
}

func decodeGeometries(data []byte) ([]orb.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("invalid GeoJSON feature collection: %w", err)
		}
		geometries := make([]orb.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geometries = append(geometries, f.Geometry)
			}
		}
		return geometries, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("invalid GeoJSON feature: %w", err)
		}
		if f.Geometry == nil {
			return nil, nil
		}
		return []orb.Geometry{f.Geometry}, nil
	case "":
		return nil, errors.New("invalid GeoJSON: missing type")
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON geometry: %w", err)
	}
	return []orb.Geometry{g.Geometry()}, nil
}

func outerRing(g orb.Geometry) (orb.Ring, bool) {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			return g[0], true
		}
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			return g[0][0], true
		}
	case orb.Ring:
		return g, true
	}
	return nil, false
}
