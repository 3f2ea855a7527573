package variation

import (
	"math"

	"github.com/matzehuels/flamekit/pkg/core/geom"
)

// Registry names of the parameterless variations.
const (
	LinearName     = "linear"
	SinusoidalName = "sinusoidal"
	SphericalName  = "spherical"
)

// smallEpsilon keeps spherical finite at the origin.
const smallEpsilon = 1e-6

func init() {
	Register(LinearName, func() Func { return &simple{name: LinearName, fn: linear} })
	Register(SinusoidalName, func() Func { return &simple{name: SinusoidalName, fn: sinusoidal} })
	Register(SphericalName, func() Func { return &simple{name: SphericalName, fn: spherical} })
}

// simple adapts a stateless 2D map with no parameters to Func.
type simple struct {
	name string
	fn   func(x, y float64) (float64, float64)
}

func (v *simple) Name() string             { return v.name }
func (v *simple) ParamNames() []string     { return nil }
func (v *simple) ParamValues() []float64   { return nil }
func (v *simple) SetParam(string, float64) {}
func (v *simple) Init(*Context, float64)   {}
func (v *simple) Clone() Func              { c := *v; return &c }

func (v *simple) Transform(ctx *Context, in, out *geom.Point, amount float64) {
	x, y := v.fn(in.X, in.Y)
	out.X += amount * x
	out.Y += amount * y
	if ctx.PreserveZ {
		out.Z += amount * in.Z
	}
}

func linear(x, y float64) (float64, float64) {
	return x, y
}

func sinusoidal(x, y float64) (float64, float64) {
	return math.Sin(x), math.Sin(y)
}

func spherical(x, y float64) (float64, float64) {
	r := 1 / (x*x + y*y + smallEpsilon)
	return x * r, y * r
}
