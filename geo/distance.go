package geo

import "math"

const earthRadiusMeters = 6371000.0

// FilterMax is the top of the maximum-distance slider. A threshold at or
// above it disables the instant geofilter entirely.
const FilterMax = 10000.0

// Point is a WGS84 coordinate. The zero value (0, 0) is the "unset" sentinel
// used throughout the lesson model.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lon == 0
}

// Distance returns the great-circle distance between two points in meters,
// using the haversine formula.
func Distance(a, b Point) float64 {
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WithinThreshold applies the instant-lesson distance filter. A threshold of
// zero excludes the candidate unconditionally; a threshold at or above
// FilterMax disables the filter.
func WithinThreshold(origin, candidate Point, threshold float64) bool {
	if threshold <= 0 {
		return false
	}
	if threshold >= FilterMax {
		return true
	}
	return Distance(origin, candidate) <= threshold
}
