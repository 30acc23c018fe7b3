package geo

import (
	"errors"
	"math"
	"testing"
)

func fixedDistance(d float64) DistanceFunc {
	return func(_, _ Point) (float64, error) { return d, nil }
}

func TestEstimateRadius_DegenerateExtent(t *testing.T) {
	extents := []Extent{
		{XMin: 100, YMin: 100, XMax: 100, YMax: 100, SR: WebMercator},
		{XMin: 100, YMin: 0, XMax: 100, YMax: 500, SR: WebMercator},
		{XMin: 2.29, YMin: 48.85, XMax: 2.29, YMax: 48.85, SR: WGS84},
	}
	for _, e := range extents {
		got, err := EstimateRadius(e, Distance)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != MinSearchRadius {
			t.Errorf("extent %+v: want %d, got %d", e, MinSearchRadius, got)
		}
	}
}

func TestEstimateRadius_MeasuresBottomEdge(t *testing.T) {
	var gotA, gotB Point
	spy := func(a, b Point) (float64, error) {
		gotA, gotB = a, b
		return 1234.2, nil
	}
	e := Extent{XMin: 10, YMin: 20, XMax: 30, YMax: 40, SR: WebMercator}

	r, err := EstimateRadius(e, spy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != 1235 {
		t.Fatalf("want ceil'ed 1235, got %d", r)
	}
	if gotA != (Point{X: 10, Y: 20, SR: WebMercator}) || gotB != (Point{X: 30, Y: 20, SR: WebMercator}) {
		t.Fatalf("unexpected edge points %+v %+v", gotA, gotB)
	}
}

func TestEstimateRadius_Projected(t *testing.T) {
	e := Extent{XMin: 0, YMin: 0, XMax: 2500, YMax: 1000, SR: WebMercator}
	r, err := EstimateRadius(e, Distance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != 2500 {
		t.Fatalf("want 2500, got %d", r)
	}
}

func TestEstimateRadius_DistanceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := EstimateRadius(Extent{}, func(_, _ Point) (float64, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestClampRadius(t *testing.T) {
	tests := []struct {
		d    float64
		want int
	}{
		{0, MinSearchRadius},
		{-5, MinSearchRadius},
		{9.01, MinSearchRadius},
		{9.99, MinSearchRadius},
		{10, 10},
		{10.01, 11},
		{999.5, 1000},
		{10000, MaxSearchRadius},
		{10000.2, MaxSearchRadius},
		{1e9, MaxSearchRadius},
		{math.Inf(1), MaxSearchRadius},
		{math.NaN(), MinSearchRadius},
	}
	for _, tc := range tests {
		if got := ClampRadius(tc.d); got != tc.want {
			t.Errorf("ClampRadius(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestClampRadius_BoundedAndMonotonic(t *testing.T) {
	prev := 0
	for d := 0.0; d <= 20000; d += 7.3 {
		r, err := EstimateRadius(Extent{SR: WebMercator}, fixedDistance(d))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r < MinSearchRadius || r > MaxSearchRadius {
			t.Fatalf("radius %d out of bounds for d=%f", r, d)
		}
		if r < prev {
			t.Fatalf("radius decreased from %d to %d at d=%f", prev, r, d)
		}
		prev = r
	}
}
