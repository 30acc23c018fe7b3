package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Point is a coordinate pair in a spatial reference.
// Geographic points carry longitude in X and latitude in Y.
type Point struct {
	X  float64          `json:"x"`
	Y  float64          `json:"y"`
	SR SpatialReference `json:"wkid"`
}

// NewGeographic creates a WGS84 point from latitude and longitude.
func NewGeographic(lat, lon float64) Point {
	return Point{X: lon, Y: lat, SR: WGS84}
}

// Lat returns Y. Meaningful only for geographic points.
func (p Point) Lat() float64 { return p.Y }

// Lon returns X. Meaningful only for geographic points.
func (p Point) Lon() float64 { return p.X }

// Orb returns the point as an orb.Point.
func (p Point) Orb() orb.Point { return orb.Point{p.X, p.Y} }

// Extent is an axis-aligned rectangle in a spatial reference.
type Extent struct {
	XMin float64          `json:"xmin"`
	YMin float64          `json:"ymin"`
	XMax float64          `json:"xmax"`
	YMax float64          `json:"ymax"`
	SR   SpatialReference `json:"wkid"`
}

// Width returns the X span.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns the Y span.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Center returns the midpoint of the extent.
func (e Extent) Center() Point {
	return Point{X: (e.XMin + e.XMax) / 2, Y: (e.YMin + e.YMax) / 2, SR: e.SR}
}

// CenterAt returns an extent of the same size centered on p.
// p must already be in the extent's spatial reference.
func (e Extent) CenterAt(p Point) Extent {
	halfW, halfH := e.Width()/2, e.Height()/2
	return Extent{
		XMin: p.X - halfW, YMin: p.Y - halfH,
		XMax: p.X + halfW, YMax: p.Y + halfH,
		SR: e.SR,
	}
}

// KeepInWorld shifts a geographic extent back inside [-180,180]x[-90,90]
// without resizing it. An axis wider than the world is clamped to it.
// Projected extents are returned unchanged.
func (e Extent) KeepInWorld() Extent {
	if !e.SR.IsGeographic() {
		return e
	}
	e.XMin, e.XMax = fitAxis(e.XMin, e.XMax, -180, 180)
	e.YMin, e.YMax = fitAxis(e.YMin, e.YMax, -90, 90)
	return e
}

func fitAxis(lo, hi, minV, maxV float64) (float64, float64) {
	switch {
	case hi-lo >= maxV-minV:
		return minV, maxV
	case lo < minV:
		return minV, hi + (minV - lo)
	case hi > maxV:
		return lo - (hi - maxV), maxV
	default:
		return lo, hi
	}
}

// Bound returns the extent as an orb.Bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.XMin, e.YMin}, Max: orb.Point{e.XMax, e.YMax}}
}

// Validate checks ordering of the corners and the spatial reference.
func (e Extent) Validate() error {
	if err := e.SR.Validate(); err != nil {
		return err
	}
	if e.XMin > e.XMax || e.YMin > e.YMax {
		return fmt.Errorf("extent min corner must not exceed max corner")
	}
	if e.SR.IsGeographic() && (!ValidateCoordinates(e.YMin, e.XMin) || !ValidateCoordinates(e.YMax, e.XMax)) {
		return fmt.Errorf("geographic extent out of range")
	}
	return nil
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
