package common

import "math"

// EarthRadiusMeters is the mean radius of the Earth.
// Fleet trackers report WGS84 coordinates, but at asset scale
// the spherical approximation is well inside GPS noise.
const EarthRadiusMeters = 6_371_000.0

// DistanceMeters returns the haversine great-circle distance, in meters,
// between two coordinate pairs given in decimal degrees.
// It is symmetric, returns 0 for identical points, and never returns
// a negative value. NaN inputs propagate as NaN; callers validate first.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}
