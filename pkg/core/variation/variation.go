package variation

import (
	"math"

	"github.com/matzehuels/flamekit/pkg/core/geom"
)

// Context carries the per-pass settings a host hands to every variation.
type Context struct {
	// PreserveZ makes variations carry the input Z through, scaled by the
	// variation amount. When false, variations leave the output Z alone.
	PreserveZ bool
}

// Func is a single flame variation.
type Func interface {
	// Name returns the identifier the variation is registered under.
	Name() string

	// ParamNames lists the parameters accepted by SetParam, in display order.
	ParamNames() []string

	// ParamValues returns the current values, aligned with ParamNames.
	ParamValues() []float64

	// SetParam sets a parameter by name. Unknown names are ignored.
	SetParam(name string, value float64)

	// Init recomputes derived state from the current parameters.
	Init(ctx *Context, amount float64)

	// Transform adds the variation's contribution for in into out.
	Transform(ctx *Context, in, out *geom.Point, amount float64)

	// Clone returns an independent copy carrying the current parameters.
	// The copy must be Init'ed before Transform is called on it.
	Clone() Func
}

// Param binds an external parameter name to accessors on a variation.
type Param struct {
	Name string
	Get  func() float64
	Set  func(float64)
}

// Params is a variation's name→accessor table.
type Params []Param

// Names returns the parameter names in table order.
func (ps Params) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// Values returns the current parameter values in table order.
func (ps Params) Values() []float64 {
	values := make([]float64, len(ps))
	for i, p := range ps {
		values[i] = p.Get()
	}
	return values
}

// Set assigns value to the parameter called name. It reports whether the
// name was found; an unknown name leaves the variation untouched.
func (ps Params) Set(name string, value float64) bool {
	for _, p := range ps {
		if p.Name == name {
			p.Set(value)
			return true
		}
	}
	return false
}

// FTOI converts a float parameter to an integer, rounding half away from zero.
func FTOI(v float64) int {
	return int(math.Round(v))
}
