package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadiusKm is the mean Earth radius used for great-circle math.
const EarthRadiusKm = 6371.0

// KmPerDegree approximates the ground length of one degree of latitude.
// Used to convert degree-denominated search radii into kilometers.
const KmPerDegree = 111.32

// ErrInvalidCoordinate is returned when a coordinate is non-finite or outside
// the valid degree ranges.
var ErrInvalidCoordinate = errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")

// Distance calculates the great-circle distance between two coordinates using
// the Haversine formula. Inputs are decimal degrees, result is kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// PointToPoint calculates great-circle distance between two points in
// kilometers, validating both coordinates first.
func PointToPoint(p1, p2 Point) (float64, error) {
	if !p1.IsValid() || !p2.IsValid() {
		return 0, ErrInvalidCoordinate
	}
	return Distance(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude), nil
}

// DecodePolyline decodes a Google encoded polyline string to a point sequence.
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}
		if !points[i].IsValid() {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}
