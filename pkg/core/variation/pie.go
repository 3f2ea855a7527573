package variation

import (
	"math"

	"github.com/matzehuels/flamekit/pkg/core/geom"
)

// PieName is the registry name of [Pie].
const PieName = "pie"

// Parameter names understood by [Pie].
const (
	PieParamAmplitude = "a"
	PieParamFoldCount = "num"
)

// Defaults for a freshly built [Pie].
const (
	DefaultPieAmplitude = 0.20
	DefaultPieFoldCount = 1
)

func init() {
	Register(PieName, func() Func { return NewPie() })
}

// PieConstants are the values [Pie.Init] derives from the parameters.
type PieConstants struct {
	InvFoldOverPi         float64 // foldCount / π
	PiOverFold            float64 // π / foldCount
	HalfAngleSpan         float64 // π · amplitude
	HalfAngleSpanOverFold float64 // HalfAngleSpan / foldCount
}

// Pie is the angle-folding ("kaleidoscope") variation.
//
// It takes two parameters: "a", the wedge half-width as a fraction of π, and
// "num", the number of wedges the plane is folded into. Neither is validated.
// A fold count of zero makes the derived constants infinite or NaN, and every
// output of that pass is then non-finite.
type Pie struct {
	amplitude float64
	foldCount int

	derived PieConstants
}

// NewPie returns a Pie with amplitude 0.20 and a single fold.
func NewPie() *Pie {
	return &Pie{
		amplitude: DefaultPieAmplitude,
		foldCount: DefaultPieFoldCount,
	}
}

// Name returns "pie".
func (v *Pie) Name() string { return PieName }

// Amplitude returns the "a" parameter.
func (v *Pie) Amplitude() float64 { return v.amplitude }

// FoldCount returns the "num" parameter.
func (v *Pie) FoldCount() int { return v.foldCount }

// Derived returns the constants computed by the last Init.
func (v *Pie) Derived() PieConstants { return v.derived }

func (v *Pie) params() Params {
	return Params{
		{
			Name: PieParamAmplitude,
			Get:  func() float64 { return v.amplitude },
			Set:  func(x float64) { v.amplitude = x },
		},
		{
			Name: PieParamFoldCount,
			Get:  func() float64 { return float64(v.foldCount) },
			Set:  func(x float64) { v.foldCount = FTOI(x) },
		},
	}
}

// ParamNames returns ["a", "num"].
func (v *Pie) ParamNames() []string { return v.params().Names() }

// ParamValues returns the current amplitude and fold count.
func (v *Pie) ParamValues() []float64 { return v.params().Values() }

// SetParam sets "a" as is and "num" rounded to the nearest integer.
// Other names are ignored.
func (v *Pie) SetParam(name string, value float64) {
	v.params().Set(name, value)
}

// Init recomputes the derived constants. ctx and amount are unused.
func (v *Pie) Init(ctx *Context, amount float64) {
	n := float64(v.foldCount)
	span := math.Pi * v.amplitude
	v.derived = PieConstants{
		InvFoldOverPi:         n / math.Pi,
		PiOverFold:            math.Pi / n,
		HalfAngleSpan:         span,
		HalfAngleSpanOverFold: span / n,
	}
}

// Transform folds the polar angle of (in.X, in.Y) and adds the result, at
// radius amount·|in|, into out.
//
// The angle a0 is split into wedges of width π/foldCount. The wedge index is
// truncated toward zero, and even and odd wedges are shifted by opposite
// half-spans before the remainder is taken. Remainders follow math.Mod, so
// their sign follows the dividend; this produces the alternating mirror
// pattern. Negative angles are folded on their magnitude and negated, with
// the parity test inverted.
func (v *Pie) Transform(ctx *Context, in, out *geom.Point, amount float64) {
	d := &v.derived

	a := math.Atan2(in.Y, in.X)
	r := amount * math.Sqrt(in.X*in.X+in.Y*in.Y)

	if a >= 0 {
		seg := int(a * d.InvFoldOverPi)
		base := float64(seg) * d.PiOverFold
		if seg%2 == 0 {
			a = base + math.Mod(d.HalfAngleSpanOverFold+a, d.PiOverFold)
		} else {
			a = base + math.Mod(-d.HalfAngleSpanOverFold+a, d.PiOverFold)
		}
	} else {
		seg := int(-a * d.InvFoldOverPi)
		base := float64(seg) * d.PiOverFold
		if seg%2 == 1 {
			a = -(base + math.Mod(-d.HalfAngleSpanOverFold-a, d.PiOverFold))
		} else {
			a = -(base + math.Mod(d.HalfAngleSpanOverFold-a, d.PiOverFold))
		}
	}

	s, c := math.Sincos(a)
	out.X += r * c
	out.Y += r * s

	if ctx.PreserveZ {
		out.Z += amount * in.Z
	}
}

// Clone returns a copy with the same parameters.
func (v *Pie) Clone() Func {
	c := *v
	return &c
}

var _ Func = (*Pie)(nil)
