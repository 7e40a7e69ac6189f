package geom

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
)

// LatLng is a (latitude, longitude) pair in decimal degrees
type LatLng [2]float64

// Vector2 is the single-precision form of a point used by the polygon test.
// X carries the latitude and Y the longitude
type Vector2 struct {
	X float32
	Y float32
}

// GeoPoint is an immutable latitude/longitude pair in decimal degrees.
// No range is enforced; see package guard for validated construction.
// GeoPoint is comparable, so == is value equality on both coordinates
type GeoPoint struct {
	lat float64
	lon float64
}

// NewPoint creates a point from a latitude and a longitude
func NewPoint(lat, lon float64) GeoPoint {
	return GeoPoint{lat: lat, lon: lon}
}

// FromLatLng creates a point from a (lat, lon) pair
func FromLatLng(ll LatLng) GeoPoint {
	return GeoPoint{lat: ll[0], lon: ll[1]}
}

// FromVector creates a point from a single-precision vector
func FromVector(v Vector2) GeoPoint {
	return GeoPoint{lat: float64(v.X), lon: float64(v.Y)}
}

// FromOrb creates a point from an orb.Point, which is ordered [lon, lat]
func FromOrb(p orb.Point) GeoPoint {
	return GeoPoint{lat: p.Lat(), lon: p.Lon()}
}

func (p GeoPoint) Latitude() float64  { return p.lat }
func (p GeoPoint) Longitude() float64 { return p.lon }

// LatLng returns the point as a (lat, lon) pair
func (p GeoPoint) LatLng() LatLng {
	return LatLng{p.lat, p.lon}
}

// Vector truncates both coordinates to float32
func (p GeoPoint) Vector() Vector2 {
	return Vector2{X: float32(p.lat), Y: float32(p.lon)}
}

// Orb returns the point in orb's [lon, lat] order
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.lon, p.lat}
}

// Clone returns an independent copy of p
func (p GeoPoint) Clone() GeoPoint {
	return GeoPoint{lat: p.lat, lon: p.lon}
}

// Equal reports exact equality of both coordinates
func (p GeoPoint) Equal(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

// EqualLatLng compares p with a (lat, lon) pair
func (p GeoPoint) EqualLatLng(ll LatLng) bool {
	return p.lat == ll[0] && p.lon == ll[1]
}

// EqualVector compares p with a vector after widening the vector to float64
func (p GeoPoint) EqualVector(v Vector2) bool {
	return p.lat == float64(v.X) && p.lon == float64(v.Y)
}

// EqualValue reports whether v is a GeoPoint (or a non-nil *GeoPoint) equal to p.
// Any other value, including nil, is never equal
func (p GeoPoint) EqualValue(v any) bool {
	switch o := v.(type) {
	case GeoPoint:
		return p.Equal(o)
	case *GeoPoint:
		return o != nil && p.Equal(*o)
	}
	return false
}

// Hash combines the digests of both coordinates' IEEE-754 bits.
// Equal points hash equally; distinct points are not guaranteed distinct hashes
func (p GeoPoint) Hash() uint64 {
	return hashFloat(p.lat)*31 ^ hashFloat(p.lon)
}

func hashFloat(f float64) uint64 {
	if f == 0 {
		// -0 == +0
		f = 0
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	return xxhash.Sum64(b[:])
}

// RingFromOrb converts an orb ring into points, keeping vertex order
func RingFromOrb(r orb.Ring) []GeoPoint {
	points := make([]GeoPoint, 0, len(r))
	for _, pt := range r {
		points = append(points, FromOrb(pt))
	}
	return points
}
