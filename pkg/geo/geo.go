// Package geo provides the coordinate type and great-circle distance used by
// the matching engine.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Coordinates is a WGS84 latitude/longitude pair.
//
// The zero value (0, 0) is treated as "unset" throughout the system: real
// donations do not sit on the null island gridpoint, and the mobile clients
// send zeros when geocoding failed. Callers must check IsSet before computing
// distances.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsSet reports whether the coordinates carry a real position.
func (c Coordinates) IsSet() bool {
	return c.Lat != 0 || c.Lng != 0
}

// DistanceKm returns the great-circle distance between a and b in kilometers,
// using the haversine formula. Pure and total for any valid lat/lng pair;
// callers are responsible for excluding unset coordinates.
func DistanceKm(a, b Coordinates) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLng*sinLng

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
