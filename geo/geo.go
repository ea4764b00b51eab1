package geo

import (
	"errors"
	"math"
)

// ErrInvalidCoordinate is returned when a latitude/longitude pair is NaN or
// outside the valid WGS84 range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

const (
	earthRadiusKm = 6371 // KM

	// SentinelKm is substituted for a distance when coordinates are invalid,
	// so that downstream ranking and radius checks degrade gracefully
	// (an unreachable driver) instead of propagating NaN.
	SentinelKm = 999
)

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is a real point on the globe.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceKm returns the great-circle distance between two points in KM
// (Haversine formula).
func DistanceKm(a, b Coordinate) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, ErrInvalidCoordinate
	}

	dLat := (b.Latitude - a.Latitude) * (math.Pi / 180.0)
	dLon := (b.Longitude - a.Longitude) * (math.Pi / 180.0)

	lat1Rad := a.Latitude * (math.Pi / 180.0)
	lat2Rad := b.Latitude * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, nil
}

// DistanceOrSentinel is DistanceKm with the defensive contract required by
// the dispatch path: invalid input yields SentinelKm rather than an error.
func DistanceOrSentinel(a, b Coordinate) float64 {
	d, err := DistanceKm(a, b)
	if err != nil {
		return SentinelKm
	}
	return d
}
