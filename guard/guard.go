// Package guard validates inputs before handing them to package geom.
// geom itself accepts anything and computes on it as-is
package guard

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"kuanb/gosm-geo/geom"
)

// ErrInvalidArgument is wrapped by every validation failure
var ErrInvalidArgument = errors.New("invalid argument")

// DefaultMaxPolygonVertices bounds polygon size when no limit is configured
const DefaultMaxPolygonVertices = 10000

var validate = validator.New()

// coordinate carries the range rules for a point. The latitude and longitude
// tags match on the decimal form of the value, so NaN and ±Inf never pass
type coordinate struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

// Guard holds validation limits. The zero value uses the defaults
type Guard struct {
	MaxPolygonVertices int
}

func invalid(field string, value any, reason string) error {
	return fmt.Errorf("%w: %s=%v %s", ErrInvalidArgument, field, value, reason)
}

// wrapValidation turns the first validator failure into an ErrInvalidArgument
// while keeping the validator error reachable through errors.As
func wrapValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("%w: %s=%v failed %s check: %w",
		ErrInvalidArgument, fieldName(fe), fe.Value(), fe.Tag(), verrs)
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Latitude":
		return "latitude"
	case "Longitude":
		return "longitude"
	case "":
		return "value"
	}
	return fe.Field()
}

// Point returns a GeoPoint after checking that lat is within [-90, 90] and lon within [-180, 180]
func Point(lat, lon float64) (geom.GeoPoint, error) {
	if err := validate.Struct(coordinate{Latitude: lat, Longitude: lon}); err != nil {
		return geom.GeoPoint{}, wrapValidation(err)
	}
	return geom.NewPoint(lat, lon), nil
}

// CheckPoint validates an already constructed point
func CheckPoint(p geom.GeoPoint) error {
	_, err := Point(p.Latitude(), p.Longitude())
	return err
}

// Unit rejects values outside the declared DistanceUnit set
func Unit(u geom.DistanceUnit) error {
	if !u.Valid() {
		return invalid("unit", u, "is not a known distance unit")
	}
	return nil
}

func (g Guard) maxVertices() int {
	if g.MaxPolygonVertices > 0 {
		return g.MaxPolygonVertices
	}
	return DefaultMaxPolygonVertices
}

// Polygon checks the vertex count and every vertex
func (g Guard) Polygon(polygon []geom.GeoPoint) error {
	limit := g.maxVertices()
	if err := validate.Var(polygon, fmt.Sprintf("min=3,max=%d", limit)); err != nil {
		return invalid("polygon", len(polygon), fmt.Sprintf("vertices, need between 3 and %d", limit))
	}
	for i, p := range polygon {
		if err := CheckPoint(p); err != nil {
			return fmt.Errorf("polygon vertex %d: %w", i, err)
		}
	}
	return nil
}

// Haversine validates both points and the unit, then calls geom.HaversineBetween
func (g Guard) Haversine(p1, p2 geom.GeoPoint, unit geom.DistanceUnit) (float64, error) {
	if err := checkPair(p1, p2, unit); err != nil {
		return 0, err
	}
	return geom.HaversineBetween(p1, p2, unit), nil
}

// SimplifiedDistance validates both points and the unit, then calls geom.SimplifiedDistanceBetween
func (g Guard) SimplifiedDistance(p1, p2 geom.GeoPoint, unit geom.DistanceUnit) (float64, error) {
	if err := checkPair(p1, p2, unit); err != nil {
		return 0, err
	}
	return geom.SimplifiedDistanceBetween(p1, p2, unit), nil
}

// PointInPolygon validates the point and polygon, then calls geom.PointInGeoPolygon
func (g Guard) PointInPolygon(point geom.GeoPoint, polygon []geom.GeoPoint) (bool, error) {
	if err := CheckPoint(point); err != nil {
		return false, fmt.Errorf("point: %w", err)
	}
	if err := g.Polygon(polygon); err != nil {
		return false, err
	}
	return geom.PointInGeoPolygon(point, polygon), nil
}

func checkPair(p1, p2 geom.GeoPoint, unit geom.DistanceUnit) error {
	if err := CheckPoint(p1); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if err := CheckPoint(p2); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	return Unit(unit)
}
