package geo

import "math"

// Search radius bounds in meters.
const (
	MinSearchRadius = 10
	MaxSearchRadius = 10000
)

// DistanceFunc measures the distance between two points in meters.
type DistanceFunc func(a, b Point) (float64, error)

// EstimateRadius derives a search radius from the width of the visible extent,
// measured along its bottom edge. The result is ceil'ed, clamped to
// [MinSearchRadius, MaxSearchRadius] and floored.
func EstimateRadius(extent Extent, distance DistanceFunc) (int, error) {
	p1 := Point{X: extent.XMin, Y: extent.YMin, SR: extent.SR}
	p2 := Point{X: extent.XMax, Y: extent.YMin, SR: extent.SR}

	d, err := distance(p1, p2)
	if err != nil {
		return 0, err
	}
	return ClampRadius(d), nil
}

// ClampRadius applies the radius rounding policy to a raw distance.
func ClampRadius(d float64) int {
	if math.IsNaN(d) {
		return MinSearchRadius
	}
	r := math.Ceil(d)
	r = math.Min(math.Max(r, MinSearchRadius), MaxSearchRadius)
	return int(math.Floor(r))
}
