package geom

// Affine is a 2D affine map. Z passes through unchanged.
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the affine map that leaves points unchanged.
var Identity = Affine{A: 1, D: 1}

// AffineFromCoefs builds an Affine from the six coefficients [A B C D E F].
func AffineFromCoefs(c [6]float64) Affine {
	return Affine{A: c[0], B: c[1], C: c[2], D: c[3], E: c[4], F: c[5]}
}

// Coefs returns the coefficients as [A B C D E F].
func (t Affine) Coefs() [6]float64 {
	return [6]float64{t.A, t.B, t.C, t.D, t.E, t.F}
}

// Apply maps p through t. Z and Color are copied unchanged.
func (t Affine) Apply(p Point) Point {
	return Point{
		X:     t.A*p.X + t.C*p.Y + t.E,
		Y:     t.B*p.X + t.D*p.Y + t.F,
		Z:     p.Z,
		Color: p.Color,
	}
}

// IsIdentity reports whether t is exactly the identity map.
func (t Affine) IsIdentity() bool {
	return t == Identity
}
