package variation

import (
	"math"
	"testing"

	"github.com/matzehuels/flamekit/pkg/core/geom"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// samplePoints avoids the negative x-axis, where atan2 returns exactly π and
// the wedge index depends on the last bit of π·(1/π).
var samplePoints = []geom.Point{
	{X: 1, Y: 0, Z: 0},
	{X: 0.5, Y: 0.25, Z: 1},
	{X: -0.3, Y: 0.9, Z: -2},
	{X: -1.2, Y: -0.4, Z: 0.5},
	{X: 0.7, Y: -1.3, Z: 3},
	{X: 0, Y: 2, Z: 0},
	{X: 0, Y: -2, Z: 0},
	{X: 1e-8, Y: 3e-8, Z: 0},
	{X: 250, Y: -17, Z: 9},
}

func newPie(t *testing.T, amplitude, folds float64) *Pie {
	t.Helper()
	v := NewPie()
	v.SetParam(PieParamAmplitude, amplitude)
	v.SetParam(PieParamFoldCount, folds)
	v.Init(&Context{}, 1)
	return v
}

func TestPieDefaults(t *testing.T) {
	v := NewPie()

	if v.Name() != "pie" {
		t.Errorf("Name() = %q, want %q", v.Name(), "pie")
	}
	if v.Amplitude() != 0.20 {
		t.Errorf("Amplitude() = %v, want 0.20", v.Amplitude())
	}
	if v.FoldCount() != 1 {
		t.Errorf("FoldCount() = %v, want 1", v.FoldCount())
	}

	names := v.ParamNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "num" {
		t.Errorf("ParamNames() = %v, want [a num]", names)
	}
	values := v.ParamValues()
	if len(values) != 2 || values[0] != 0.20 || values[1] != 1 {
		t.Errorf("ParamValues() = %v, want [0.2 1]", values)
	}
}

func TestPieSetParam(t *testing.T) {
	tests := []struct {
		name          string
		param         string
		value         float64
		wantAmplitude float64
		wantFolds     int
	}{
		{"amplitude", "a", 0.75, 0.75, 1},
		{"negative amplitude", "a", -0.3, -0.3, 1},
		{"amplitude above one", "a", 2.5, 2.5, 1},
		{"fold count", "num", 6, 0.20, 6},
		{"fold count rounds down", "num", 4.4, 0.20, 4},
		{"fold count rounds up", "num", 4.6, 0.20, 5},
		{"fold count half rounds away", "num", 2.5, 0.20, 3},
		{"negative fold count", "num", -3, 0.20, -3},
		{"zero fold count", "num", 0, 0.20, 0},
		{"unknown name ignored", "radius", 9, 0.20, 1},
		{"case sensitive", "A", 9, 0.20, 1},
		{"empty name ignored", "", 9, 0.20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewPie()
			v.SetParam(tt.param, tt.value)
			if v.Amplitude() != tt.wantAmplitude {
				t.Errorf("Amplitude() = %v, want %v", v.Amplitude(), tt.wantAmplitude)
			}
			if v.FoldCount() != tt.wantFolds {
				t.Errorf("FoldCount() = %v, want %v", v.FoldCount(), tt.wantFolds)
			}
		})
	}
}

func TestPieInit(t *testing.T) {
	v := newPie(t, 0.5, 4)
	d := v.Derived()

	if !approx(d.InvFoldOverPi, 4/math.Pi) {
		t.Errorf("InvFoldOverPi = %v, want %v", d.InvFoldOverPi, 4/math.Pi)
	}
	if !approx(d.PiOverFold, math.Pi/4) {
		t.Errorf("PiOverFold = %v, want %v", d.PiOverFold, math.Pi/4)
	}
	if !approx(d.HalfAngleSpan, math.Pi*0.5) {
		t.Errorf("HalfAngleSpan = %v, want %v", d.HalfAngleSpan, math.Pi*0.5)
	}
	if !approx(d.HalfAngleSpanOverFold, math.Pi*0.5/4) {
		t.Errorf("HalfAngleSpanOverFold = %v, want %v", d.HalfAngleSpanOverFold, math.Pi*0.5/4)
	}
}

func TestPieInitTracksParameterChanges(t *testing.T) {
	v := newPie(t, 0.2, 1)
	v.SetParam(PieParamAmplitude, 0.9)

	// Derived state only moves on Init.
	if !approx(v.Derived().HalfAngleSpan, math.Pi*0.2) {
		t.Errorf("HalfAngleSpan before Init = %v, want %v", v.Derived().HalfAngleSpan, math.Pi*0.2)
	}

	v.Init(&Context{}, 1)
	if !approx(v.Derived().HalfAngleSpan, math.Pi*0.9) {
		t.Errorf("HalfAngleSpan after Init = %v, want %v", v.Derived().HalfAngleSpan, math.Pi*0.9)
	}
}

func TestPieConcreteScenario(t *testing.T) {
	v := newPie(t, 0.20, 1)

	in := geom.Point{X: 1, Y: 0, Z: 0}
	var out geom.Point
	v.Transform(&Context{}, &in, &out, 1)

	wantX, wantY := math.Cos(0.2*math.Pi), math.Sin(0.2*math.Pi)
	if !approx(out.X, wantX) || !approx(out.Y, wantY) {
		t.Errorf("Transform(1,0) = (%v, %v), want (%v, %v)", out.X, out.Y, wantX, wantY)
	}
	if math.Abs(out.X-0.8090) > 1e-4 || math.Abs(out.Y-0.5878) > 1e-4 {
		t.Errorf("Transform(1,0) = (%.4f, %.4f), want (0.8090, 0.5878)", out.X, out.Y)
	}
}

func TestPieNoFoldIsIdentity(t *testing.T) {
	v := newPie(t, 0, 1)

	for _, weight := range []float64{1, 0.5, 2.75} {
		for _, in := range samplePoints {
			var out geom.Point
			v.Transform(&Context{}, &in, &out, weight)
			if !approx(out.X, weight*in.X) || !approx(out.Y, weight*in.Y) {
				t.Errorf("Transform(%v, %v) w=%v = (%v, %v), want (%v, %v)",
					in.X, in.Y, weight, out.X, out.Y, weight*in.X, weight*in.Y)
			}
		}
	}
}

func TestPieRadiusInvariance(t *testing.T) {
	params := []struct{ amplitude, folds float64 }{
		{0.20, 1}, {0, 1}, {0.5, 2}, {0.33, 5}, {1.7, 7}, {-0.4, 3}, {0.2, -2}, {0.25, 12},
	}

	for _, p := range params {
		v := newPie(t, p.amplitude, p.folds)
		for _, weight := range []float64{1, 0.3, 4} {
			for _, in := range samplePoints {
				var out geom.Point
				v.Transform(&Context{}, &in, &out, weight)
				got := math.Hypot(out.X, out.Y)
				want := weight * in.Radius()
				if !approx(got, want) {
					t.Errorf("a=%v num=%v w=%v in=(%v,%v): radius = %v, want %v",
						p.amplitude, p.folds, weight, in.X, in.Y, got, want)
				}
			}
		}
	}
}

func TestPieDeterministic(t *testing.T) {
	v := newPie(t, 0.37, 5)
	ctx := &Context{PreserveZ: true}

	for _, in := range samplePoints {
		var a, b geom.Point
		v.Transform(ctx, &in, &a, 0.8)
		v.Transform(ctx, &in, &b, 0.8)
		if a != b {
			t.Errorf("Transform(%+v) not deterministic: %+v vs %+v", in, a, b)
		}
	}
}

func TestPiePreserveZ(t *testing.T) {
	v := newPie(t, 0.2, 3)
	in := geom.Point{X: 0.4, Y: 0.1, Z: 2.5}

	t.Run("enabled", func(t *testing.T) {
		out := geom.Point{Z: 1}
		v.Transform(&Context{PreserveZ: true}, &in, &out, 0.5)
		if !approx(out.Z, 1+0.5*2.5) {
			t.Errorf("Z = %v, want %v", out.Z, 1+0.5*2.5)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		out := geom.Point{Z: 1}
		v.Transform(&Context{PreserveZ: false}, &in, &out, 0.5)
		if out.Z != 1 {
			t.Errorf("Z = %v, want 1 (unchanged)", out.Z)
		}
	})
}

func TestPieAccumulates(t *testing.T) {
	v := newPie(t, 0.2, 1)
	in := geom.Point{X: 1, Y: 0}

	var fresh geom.Point
	v.Transform(&Context{}, &in, &fresh, 1)

	out := geom.Point{X: 10, Y: -10}
	v.Transform(&Context{}, &in, &out, 1)
	if !approx(out.X, 10+fresh.X) || !approx(out.Y, -10+fresh.Y) {
		t.Errorf("Transform() overwrote output: got (%v, %v), want (%v, %v)",
			out.X, out.Y, 10+fresh.X, -10+fresh.Y)
	}
}

func TestPieOriginContributesNothing(t *testing.T) {
	params := []struct{ amplitude, folds float64 }{
		{0.2, 1}, {0.9, 6}, {-1, -3}, {3, 2},
	}
	for _, p := range params {
		v := newPie(t, p.amplitude, p.folds)
		in := geom.Point{}
		var out geom.Point
		v.Transform(&Context{}, &in, &out, 1)
		if out.X != 0 || out.Y != 0 {
			t.Errorf("a=%v num=%v: Transform(0,0) = (%v, %v), want (0, 0)", p.amplitude, p.folds, out.X, out.Y)
		}
		if !out.IsFinite() {
			t.Errorf("a=%v num=%v: Transform(0,0) not finite: %+v", p.amplitude, p.folds, out)
		}
	}
}

func TestPieNegativeFoldCountStaysFinite(t *testing.T) {
	v := newPie(t, 0.3, -4)
	for _, in := range samplePoints {
		var out geom.Point
		v.Transform(&Context{}, &in, &out, 1)
		if !out.IsFinite() {
			t.Errorf("Transform(%v, %v) with num=-4 = %+v, want finite", in.X, in.Y, out)
		}
	}
}

func TestPieZeroFoldCountIsNonFinite(t *testing.T) {
	v := newPie(t, 0.2, 0)
	d := v.Derived()

	if !math.IsInf(d.PiOverFold, 1) {
		t.Errorf("PiOverFold = %v, want +Inf", d.PiOverFold)
	}
	if !math.IsInf(d.HalfAngleSpanOverFold, 1) {
		t.Errorf("HalfAngleSpanOverFold = %v, want +Inf", d.HalfAngleSpanOverFold)
	}

	in := geom.Point{X: 1, Y: 0}
	var out geom.Point
	v.Transform(&Context{}, &in, &out, 1)
	if !math.IsNaN(out.X) || !math.IsNaN(out.Y) {
		t.Errorf("Transform() with num=0 = (%v, %v), want NaN", out.X, out.Y)
	}
}

func TestPieFoldsIntoWedges(t *testing.T) {
	// With amplitude 0 every wedge maps onto itself, so angles are unchanged
	// for any fold count. Points on the y-axis sit exactly on a wedge border.
	v := newPie(t, 0, 6)
	for _, in := range samplePoints {
		if in.X == 0 {
			continue
		}
		var out geom.Point
		v.Transform(&Context{}, &in, &out, 1)
		if !approx(out.X, in.X) || !approx(out.Y, in.Y) {
			t.Errorf("num=6 a=0: Transform(%v, %v) = (%v, %v), want input", in.X, in.Y, out.X, out.Y)
		}
	}

	// A half-wedge shift on the first wedge: a0=0 moves to π/(2n).
	v = newPie(t, 0.5, 2)
	in := geom.Point{X: 1}
	var out geom.Point
	v.Transform(&Context{}, &in, &out, 1)
	want := math.Pi / 4
	if got := math.Atan2(out.Y, out.X); !approx(got, want) {
		t.Errorf("angle = %v, want %v", got, want)
	}
}

func TestPieOddWedgeShiftsBackward(t *testing.T) {
	// num=2: wedges are π/2 wide; an angle of 3π/4 sits in wedge 1 (odd).
	v := newPie(t, 0.2, 2)
	a0 := 3 * math.Pi / 4
	in := geom.Point{X: math.Cos(a0), Y: math.Sin(a0)}
	var out geom.Point
	v.Transform(&Context{}, &in, &out, 1)

	d := v.Derived()
	want := d.PiOverFold + math.Mod(-d.HalfAngleSpanOverFold+a0, d.PiOverFold)
	if got := math.Atan2(out.Y, out.X); !approx(got, want) {
		t.Errorf("angle = %v, want %v", got, want)
	}
}

func TestPieNegativeAngles(t *testing.T) {
	v := newPie(t, 0.2, 2)
	d := v.Derived()

	tests := []struct {
		name string
		a0   float64
		want func(a0 float64) float64
	}{
		{
			name: "even wedge",
			a0:   -math.Pi / 4,
			want: func(a0 float64) float64 {
				return -math.Mod(d.HalfAngleSpanOverFold-a0, d.PiOverFold)
			},
		},
		{
			name: "odd wedge",
			a0:   -3 * math.Pi / 4,
			want: func(a0 float64) float64 {
				return -(d.PiOverFold + math.Mod(-d.HalfAngleSpanOverFold-a0, d.PiOverFold))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := geom.Point{X: math.Cos(tt.a0), Y: math.Sin(tt.a0)}
			var out geom.Point
			v.Transform(&Context{}, &in, &out, 1)
			want := tt.want(tt.a0)
			gotX, gotY := math.Cos(want), math.Sin(want)
			if !approx(out.X, gotX) || !approx(out.Y, gotY) {
				t.Errorf("Transform() = (%v, %v), want angle %v -> (%v, %v)", out.X, out.Y, want, gotX, gotY)
			}
		})
	}
}

func TestPieClone(t *testing.T) {
	v := NewPie()
	v.SetParam("a", 0.6)
	v.SetParam("num", 3)

	c, ok := v.Clone().(*Pie)
	if !ok {
		t.Fatalf("Clone() type = %T, want *Pie", v.Clone())
	}
	if c.Amplitude() != 0.6 || c.FoldCount() != 3 {
		t.Errorf("Clone() params = (%v, %v), want (0.6, 3)", c.Amplitude(), c.FoldCount())
	}

	c.SetParam("num", 8)
	if v.FoldCount() != 3 {
		t.Errorf("original FoldCount() = %v after changing clone, want 3", v.FoldCount())
	}
}

func TestFTOI(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0}, {0.49, 0}, {0.5, 1}, {1.5, 2}, {-0.5, -1}, {-1.4, -1}, {-1.6, -2}, {7, 7},
	}
	for _, tt := range tests {
		if got := FTOI(tt.in); got != tt.want {
			t.Errorf("FTOI(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
