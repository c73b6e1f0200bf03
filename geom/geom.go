// Package geom provides the 2D helpers that turn simulated node
// positions into rendered geometry.
package geom

import "math"

// Point is a position in view coordinates.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b. Link labels are
// anchored here.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// TrimToBoundary returns the point where the straight line from src to
// dst crosses the circle of radius r centered at dst, so a drawn link
// terminates at the node's rendered edge rather than its center.
//
// Coincident endpoints have no direction to trim along; the destination
// is returned unchanged so no NaN ever reaches a rendered attribute.
func TrimToBoundary(src, dst Point, r float64) Point {
	dx := dst.X - src.X
	dy := dst.Y - src.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return dst
	}
	return Point{X: dst.X - dx/d*r, Y: dst.Y - dy/d*r}
}

// TrimFromBoundary is the symmetric operation for the source end: it
// returns the point offset from src toward dst by the source node's own
// radius. Coincident endpoints return src unchanged.
func TrimFromBoundary(src, dst Point, r float64) Point {
	dx := dst.X - src.X
	dy := dst.Y - src.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return src
	}
	return Point{X: src.X + dx/d*r, Y: src.Y + dy/d*r}
}
