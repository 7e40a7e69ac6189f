package geom

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// MinutesPerDegree is also the number of nautical miles in one degree of arc
	MinutesPerDegree = 60.0

	// StatuteMilesPerNauticalMile is the rounded factor used by every nm/mi conversion
	StatuteMilesPerNauticalMile = 1.151
	// KmPerStatuteMile is the exact length of the international mile
	KmPerStatuteMile = 1.609344
	// KmPerNauticalMile is the exact length of the international nautical mile
	KmPerNauticalMile = 1.852

	// EarthRadiusKm is the mean Earth radius used by Haversine
	EarthRadiusKm = 6371.0
)

// DistanceUnit selects the unit a distance is reported in.
// The zero value is NauticalMile, the default for every distance function
type DistanceUnit int

// Supported distance units
const (
	NauticalMile DistanceUnit = iota
	Kilometer
	StatuteMile
)

// ErrUnknownUnit is returned by ParseDistanceUnit for names it does not recognise
var ErrUnknownUnit = errors.New("unknown distance unit")

// String returns the long name of u
func (u DistanceUnit) String() string {
	switch u {
	case NauticalMile:
		return "nautical_mile"
	case Kilometer:
		return "kilometer"
	case StatuteMile:
		return "statute_mile"
	}
	return fmt.Sprintf("DistanceUnit(%d)", int(u))
}

// Symbol returns the short form used by the CLI and the HTTP API
func (u DistanceUnit) Symbol() string {
	switch u {
	case NauticalMile:
		return "nm"
	case Kilometer:
		return "km"
	case StatuteMile:
		return "mi"
	}
	return "?"
}

// Valid reports whether u is one of the declared units
func (u DistanceUnit) Valid() bool {
	return u >= NauticalMile && u <= StatuteMile
}

// ParseDistanceUnit accepts the symbol or the long name of a unit, case-insensitively.
// An empty string yields the default unit
func ParseDistanceUnit(s string) (DistanceUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nm", "nmi", "nautical", "nautical_mile", "nauticalmile":
		return NauticalMile, nil
	case "km", "kilometer", "kilometre", "kilometers", "kilometres":
		return Kilometer, nil
	case "mi", "mile", "miles", "statute", "statute_mile", "statutemile":
		return StatuteMile, nil
	}
	return NauticalMile, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadiansToDegrees converts an angle in radians to degrees
func RadiansToDegrees(rad float64) float64 {
	return rad / math.Pi * 180.0
}

// KmToStatuteMiles converts kilometers to statute miles
func KmToStatuteMiles(km float64) float64 {
	return km / KmPerStatuteMile
}

// KmToNauticalMiles converts kilometers to nautical miles
func KmToNauticalMiles(km float64) float64 {
	return km / KmPerNauticalMile
}

// StatuteMilesToKm converts statute miles to kilometers
func StatuteMilesToKm(mi float64) float64 {
	return mi * KmPerStatuteMile
}

// StatuteMilesToNautical converts statute miles to nautical miles
func StatuteMilesToNautical(mi float64) float64 {
	return mi / StatuteMilesPerNauticalMile
}

// NauticalMilesToStatute converts nautical miles to statute miles
func NauticalMilesToStatute(nm float64) float64 {
	return nm * StatuteMilesPerNauticalMile
}

// NauticalMilesToKm converts nautical miles to kilometers
func NauticalMilesToKm(nm float64) float64 {
	return nm * KmPerNauticalMile
}

// Convert expresses value, given in unit from, in unit to.
// Unknown units leave the value unchanged
func Convert(value float64, from, to DistanceUnit) float64 {
	if from == to {
		return value
	}
	switch from {
	case Kilometer:
		switch to {
		case NauticalMile:
			return KmToNauticalMiles(value)
		case StatuteMile:
			return KmToStatuteMiles(value)
		}
	case StatuteMile:
		switch to {
		case Kilometer:
			return StatuteMilesToKm(value)
		case NauticalMile:
			return StatuteMilesToNautical(value)
		}
	case NauticalMile:
		switch to {
		case Kilometer:
			return NauticalMilesToKm(value)
		case StatuteMile:
			return NauticalMilesToStatute(value)
		}
	}
	return value
}
