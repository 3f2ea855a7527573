// Package geom provides the small value types shared by variations, xforms,
// and the renderer.
//
// # Points
//
// [Point] is the mutable 3D point a variation reads from (the affine-transformed
// input) and accumulates into (the variation output). Variations add their
// contribution into the output instead of overwriting it, so several variations
// of one xform can sum into a single point.
//
// # Affine Transforms
//
// [Affine] stores the six coefficients of a 2D affine map in flam3 order:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// so that x' = A*x + C*y + E and y' = B*x + D*y + F.
package geom

import "math"

// Point is a point in flame space. Color carries the running palette index
// of the chaos-game sample and is ignored by variations.
type Point struct {
	X, Y, Z float64
	Color   float64
}

// Radius returns the distance of (X, Y) from the origin.
func (p Point) Radius() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// IsFinite reports whether every coordinate is a finite number.
func (p Point) IsFinite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
