// Package flame models a fractal flame: a set of weighted xforms plus the
// camera and tone-mapping settings a renderer needs.
//
// # Lifecycle
//
// A [Flame] is built or loaded, then [Flame.Init] is called once per
// rendering pass. Init hands the flame's [variation.Context] to every
// variation so derived constants are recomputed, and builds the weight table
// used by [Flame.Select].
//
// Renderers that iterate on several goroutines give each worker its own
// [Flame.Clone] and call Init on it:
//
//	local := f.Clone()
//	local.Init()
//	p = local.Select(rng.Float64()).Apply(local.Context(), p)
package flame

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/flamekit/pkg/core/geom"
	"github.com/matzehuels/flamekit/pkg/core/variation"
	"github.com/matzehuels/flamekit/pkg/palette"
)

// Default values for a new flame.
const (
	DefaultWidth          = 800
	DefaultHeight         = 600
	DefaultPixelsPerUnit  = 50.0
	DefaultBrightness     = 4.0
	DefaultGamma          = 4.0
	DefaultGammaThreshold = 0.04
	DefaultVibrancy       = 1.0
	DefaultSampleDensity  = 100.0
	DefaultOversample     = 1
)

// Flame is a complete flame description.
type Flame struct {
	Name string

	Width, Height int

	// Camera: the view centre in flame space, pixels per flame unit, and a
	// base-2 logarithmic zoom.
	CentreX, CentreY float64
	PixelsPerUnit    float64
	Zoom             float64

	// Tone mapping.
	Brightness     float64
	Gamma          float64
	GammaThreshold float64
	Vibrancy       float64

	// Sampling: Oversample renders at Oversample× resolution and downscales;
	// SampleDensity is the number of samples per output pixel.
	Oversample    int
	SampleDensity float64

	PreserveZ bool

	PaletteName string
	Palette     palette.Palette

	// PaletteStops holds the hex stops a custom palette was built from.
	// It is empty for named palettes and for palettes built in code.
	PaletteStops []string

	XForms []*XForm
	Final  *XForm

	ctx        variation.Context
	cumulative []float64
}

// Default returns a flame with default camera and tone settings, the
// default palette, and no xforms.
func Default() *Flame {
	p, _ := palette.ByName(palette.DefaultName)
	return &Flame{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		PixelsPerUnit:  DefaultPixelsPerUnit,
		Brightness:     DefaultBrightness,
		Gamma:          DefaultGamma,
		GammaThreshold: DefaultGammaThreshold,
		Vibrancy:       DefaultVibrancy,
		Oversample:     DefaultOversample,
		SampleDensity:  DefaultSampleDensity,
		PaletteName:    palette.DefaultName,
		Palette:        p,
	}
}

// AddXForm appends x.
func (f *Flame) AddXForm(x *XForm) {
	f.XForms = append(f.XForms, x)
}

// Context returns the transformation context built by the last Init.
func (f *Flame) Context() *variation.Context {
	return &f.ctx
}

// Init prepares the flame for a rendering pass. It must be called after any
// change to xforms or variation parameters and before Select or Apply.
func (f *Flame) Init() {
	f.ctx = variation.Context{PreserveZ: f.PreserveZ}

	f.cumulative = f.cumulative[:0]
	total := 0.0
	for _, x := range f.XForms {
		x.Init(&f.ctx)
		if x.Weight > 0 {
			total += x.Weight
		}
		f.cumulative = append(f.cumulative, total)
	}
	if f.Final != nil {
		f.Final.Init(&f.ctx)
	}
}

// TotalWeight returns the sum of positive xform weights seen by Init.
func (f *Flame) TotalWeight() float64 {
	if len(f.cumulative) == 0 {
		return 0
	}
	return f.cumulative[len(f.cumulative)-1]
}

// Select picks an xform with probability proportional to its weight.
// r must be in [0, 1). It returns nil when no xform has positive weight.
func (f *Flame) Select(r float64) *XForm {
	total := f.TotalWeight()
	if total <= 0 {
		return nil
	}
	target := r * total
	i := sort.Search(len(f.cumulative), func(i int) bool {
		return f.cumulative[i] > target
	})
	if i >= len(f.XForms) {
		i = len(f.XForms) - 1
	}
	return f.XForms[i]
}

// Step applies one randomly selected xform, then the final xform if any.
// The returned point is the one fed back into the next iteration; the
// second value is the point to plot.
func (f *Flame) Step(p geom.Point, r float64) (next, plot geom.Point) {
	x := f.Select(r)
	if x == nil {
		return p, p
	}
	next = x.Apply(&f.ctx, p)
	plot = next
	if f.Final != nil {
		plot = f.Final.Apply(&f.ctx, next)
	}
	return next, plot
}

// Clone returns a deep copy with cloned variations. The copy must be
// Init'ed before use.
func (f *Flame) Clone() *Flame {
	c := *f
	c.cumulative = nil
	c.PaletteStops = slices.Clone(f.PaletteStops)
	c.XForms = make([]*XForm, len(f.XForms))
	for i, x := range f.XForms {
		c.XForms[i] = x.Clone()
	}
	if f.Final != nil {
		c.Final = f.Final.Clone()
	}
	return &c
}

// VariationNames returns the distinct variation names used by the flame,
// in first-use order.
func (f *Flame) VariationNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(x *XForm) {
		for _, e := range x.Variations {
			if n := e.Func.Name(); !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	for _, x := range f.XForms {
		add(x)
	}
	if f.Final != nil {
		add(f.Final)
	}
	return names
}

// Scale returns the number of (oversampled) pixels per flame unit.
func (f *Flame) Scale() float64 {
	return f.PixelsPerUnit * math.Exp2(f.Zoom) * float64(f.OversampleFactor())
}

// OversampleFactor returns Oversample, at least 1.
func (f *Flame) OversampleFactor() int {
	if f.Oversample < 1 {
		return 1
	}
	return f.Oversample
}

// RenderSize returns the histogram size including oversampling.
func (f *Flame) RenderSize() (w, h int) {
	o := f.OversampleFactor()
	return f.Width * o, f.Height * o
}
