// Package geo holds great-circle helpers shared by the ranking and storage code.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for every distance.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the haversine great-circle distance between two
// coordinates given in degrees.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	dPhi := degreesToRadians(lat2 - lat1)
	dLambda := degreesToRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// rounding can push a a hair past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// ValidCoordinate reports whether lat/lon are finite and inside the
// [-90,90] x [-180,180] range.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
