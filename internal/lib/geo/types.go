package geo

import "math"

// Point represents a geographic coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lng" yaml:"lng"`
}

// IsValid reports whether the point is a usable geographic coordinate.
// Non-finite values (NaN, Inf) are rejected along with out-of-range degrees.
func (p Point) IsValid() bool {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}
