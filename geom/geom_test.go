package geom

import (
	"math"
	"testing"
)

func TestTrimToBoundary(t *testing.T) {
	tests := []struct {
		name string
		src  Point
		dst  Point
		r    float64
		want Point
	}{
		{"horizontal", Point{0, 0}, Point{10, 0}, 5, Point{5, 0}},
		{"vertical", Point{0, 0}, Point{0, 10}, 5, Point{0, 5}},
		{"zero radius", Point{0, 0}, Point{10, 0}, 0, Point{10, 0}},
		{"diagonal", Point{0, 0}, Point{3, 4}, 5, Point{0, 0}},
		{"coincident", Point{7, 7}, Point{7, 7}, 5, Point{7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimToBoundary(tt.src, tt.dst, tt.r)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("TrimToBoundary(%v, %v, %v) = %v, want %v", tt.src, tt.dst, tt.r, got, tt.want)
			}
		})
	}
}

func TestTrimFromBoundary(t *testing.T) {
	tests := []struct {
		name string
		src  Point
		dst  Point
		r    float64
		want Point
	}{
		{"horizontal", Point{0, 0}, Point{10, 0}, 5, Point{5, 0}},
		{"offset", Point{10, 10}, Point{10, 30}, 4, Point{10, 14}},
		{"coincident", Point{3, 3}, Point{3, 3}, 5, Point{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimFromBoundary(tt.src, tt.dst, tt.r)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("TrimFromBoundary(%v, %v, %v) = %v, want %v", tt.src, tt.dst, tt.r, got, tt.want)
			}
		})
	}
}

func TestTrimCoincidentIsFinite(t *testing.T) {
	p := Point{42, 42}
	for _, got := range []Point{
		TrimToBoundary(p, p, 12),
		TrimFromBoundary(p, p, 12),
	} {
		if math.IsNaN(got.X) || math.IsNaN(got.Y) || math.IsInf(got.X, 0) || math.IsInf(got.Y, 0) {
			t.Errorf("trim of coincident points produced non-finite point %v", got)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := Distance(Point{1, 1}, Point{1, 1}); d != 0 {
		t.Errorf("Distance of coincident points = %v, want 0", d)
	}
}

func TestMidpoint(t *testing.T) {
	got := Midpoint(Point{0, 0}, Point{10, 20})
	if got.X != 5 || got.Y != 10 {
		t.Errorf("Midpoint = %v, want {5 10}", got)
	}
}
