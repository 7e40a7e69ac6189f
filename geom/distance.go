package geom

import "math"

// Haversine calculates the great-circle distance between two points using the
// Haversine formula. Unknown units fall back to kilometers
func Haversine(lat1, lon1, lat2, lon2 float64, unit DistanceUnit) float64 {
	dLat := DegreesToRadians(lat2 - lat1)
	dLon := DegreesToRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(DegreesToRadians(lat1))*math.Cos(DegreesToRadians(lat2))*sinLon*sinLon

	// rounding can push sqrt(h) just past 1, where Asin returns NaN
	c := 2 * math.Asin(math.Min(1, math.Sqrt(h)))
	km := EarthRadiusKm * c

	switch unit {
	case StatuteMile:
		return KmToStatuteMiles(km)
	case NauticalMile:
		return KmToNauticalMiles(km)
	}
	return km
}

// HaversineBetween is Haversine for two points
func HaversineBetween(p1, p2 GeoPoint, unit DistanceUnit) float64 {
	return Haversine(p1.lat, p1.lon, p2.lat, p2.lon, unit)
}

// SimplifiedDistance calculates the great-circle distance with the spherical law
// of cosines. It is cheaper than Haversine but loses precision for nearly
// coincident or antipodal points, and returns NaN when rounding pushes the
// cosine of the central angle outside [-1, 1]
func SimplifiedDistance(lat1, lon1, lat2, lon2 float64, unit DistanceUnit) float64 {
	theta := lon1 - lon2
	lat1Rad := DegreesToRadians(lat1)
	lat2Rad := DegreesToRadians(lat2)

	cosCentral := math.Sin(lat1Rad)*math.Sin(lat2Rad) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Cos(DegreesToRadians(theta))

	// one minute of arc is one nautical mile
	dist := RadiansToDegrees(math.Acos(cosCentral)) * MinutesPerDegree

	switch unit {
	case Kilometer:
		dist *= KmPerNauticalMile
	case StatuteMile:
		dist *= StatuteMilesPerNauticalMile
	}
	return dist
}

// SimplifiedDistanceBetween is SimplifiedDistance for two points
func SimplifiedDistanceBetween(p1, p2 GeoPoint, unit DistanceUnit) float64 {
	return SimplifiedDistance(p1.lat, p1.lon, p2.lat, p2.lon, unit)
}
