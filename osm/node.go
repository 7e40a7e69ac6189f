package osm

import (
	"kuanb/gosm-geo/geom"
)

type OsmNodeId int64

// OsmNode is a node kept by the extractor
type OsmNode struct {
	ID    OsmNodeId
	Point geom.GeoPoint
	Tags  map[string]string
}

// Predicate decides whether a node is kept
type Predicate func(geom.GeoPoint) bool

// InPolygon keeps nodes inside polygon (even-odd ray casting)
func InPolygon(polygon []geom.GeoPoint) Predicate {
	return func(p geom.GeoPoint) bool {
		return geom.PointInGeoPolygon(p, polygon)
	}
}

// WithinRadius keeps nodes whose haversine distance to center is at most radius, in unit
func WithinRadius(center geom.GeoPoint, radius float64, unit geom.DistanceUnit) Predicate {
	return func(p geom.GeoPoint) bool {
		return geom.HaversineBetween(center, p, unit) <= radius
	}
}

// All keeps nodes accepted by every predicate
func All(predicates ...Predicate) Predicate {
	return func(p geom.GeoPoint) bool {
		for _, keep := range predicates {
			if !keep(p) {
				return false
			}
		}
		return true
	}
}

// Stats counts the entities seen during one extraction
type Stats struct {
	Nodes     uint64
	Ways      uint64
	Relations uint64
	Kept      uint64
}
