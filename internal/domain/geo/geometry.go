package geo

import (
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// Distance returns the distance in meters between two points.
// Geographic points use the haversine great-circle distance, projected points
// the planar distance in map units. b is reprojected into a's reference first.
func Distance(a, b Point) (float64, error) {
	if err := a.SR.Validate(); err != nil {
		return 0, err
	}
	b, err := Reproject(b, a.SR)
	if err != nil {
		return 0, err
	}
	if a.SR.IsGeographic() {
		return orbgeo.DistanceHaversine(a.Orb(), b.Orb()), nil
	}
	return planar.Distance(a.Orb(), b.Orb()), nil
}

// Reproject converts p into the target spatial reference (geographic <-> Web Mercator).
func Reproject(p Point, target SpatialReference) (Point, error) {
	if err := p.SR.Validate(); err != nil {
		return Point{}, err
	}
	if err := target.Validate(); err != nil {
		return Point{}, err
	}

	from, to := p.SR.Normalize(), target.Normalize()
	if from == to {
		return Point{X: p.X, Y: p.Y, SR: target}, nil
	}

	var out Point
	if from == WGS84 {
		q := project.Point(p.Orb(), project.WGS84.ToMercator)
		out = Point{X: q[0], Y: q[1]}
	} else {
		q := project.Point(p.Orb(), project.Mercator.ToWGS84)
		out = Point{X: q[0], Y: q[1]}
	}
	out.SR = target
	return out, nil
}

// ToGeographic is shorthand for Reproject(p, WGS84).
func ToGeographic(p Point) (Point, error) { return Reproject(p, WGS84) }
