package entities

import "github.com/navina/travelguide/pkg/geo"

// GeoPoint represents geographical coordinates in degrees
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point is finite and within latitude/longitude bounds
func (p GeoPoint) Valid() bool {
	return geo.ValidCoordinate(p.Latitude, p.Longitude)
}

// DistanceTo returns the great-circle distance to other in meters
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	return geo.DistanceMeters(p.Latitude, p.Longitude, other.Latitude, other.Longitude)
}
