package render

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flamekit/pkg/core/flame"
	"github.com/matzehuels/flamekit/pkg/core/geom"
)

const (
	// DefaultFuse is the number of iterations discarded before plotting, so
	// the walk has settled onto the attractor.
	DefaultFuse = 20

	// DefaultSeed is the random seed used when none is given.
	DefaultSeed = uint64(42)

	// batchSize is how many samples a worker runs between cancellation checks.
	batchSize = 10_000

	// maxRetries bounds the number of consecutive restarts after a worker's
	// point escapes to a non-finite value.
	maxRetries = 100
)

// ErrNoXForms is returned when the flame has no xform with positive weight.
var ErrNoXForms = errors.New("flame has no xform with positive weight")

// Options configures a render.
type Options struct {
	// Samples is the total number of iterations. Zero derives it from the
	// flame's SampleDensity and output size.
	Samples uint64

	// Workers is the number of goroutines. Zero uses GOMAXPROCS.
	Workers int

	// Seed makes a render reproducible for a given worker count.
	Seed uint64

	// Fuse overrides DefaultFuse when positive.
	Fuse int
}

func (o Options) withDefaults(f *flame.Flame) Options {
	if o.Samples == 0 {
		o.Samples = uint64(math.Max(1, f.SampleDensity*float64(f.Width*f.Height)))
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if uint64(o.Workers) > o.Samples {
		o.Workers = int(o.Samples)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Fuse <= 0 {
		o.Fuse = DefaultFuse
	}
	return o
}

// Render runs the chaos game for f and returns the accumulated histogram.
// f itself is only read; each worker iterates its own clone.
func Render(ctx context.Context, f *flame.Flame, opts Options) (*Histogram, error) {
	opts = opts.withDefaults(f)

	probe := f.Clone()
	probe.Init()
	if probe.TotalWeight() <= 0 {
		return nil, ErrNoXForms
	}

	w, h := f.RenderSize()
	hists := make([]*Histogram, opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	per := opts.Samples / uint64(opts.Workers)
	rem := opts.Samples % uint64(opts.Workers)

	for i := 0; i < opts.Workers; i++ {
		n := per
		if uint64(i) < rem {
			n++
		}
		local := f.Clone()
		local.Init()
		hist := NewHistogram(w, h)
		hists[i] = hist
		seed := opts.Seed + uint64(i)

		g.Go(func() error {
			return iterate(gctx, local, hist, n, seed, opts.Fuse)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := hists[0]
	for _, hist := range hists[1:] {
		out.Merge(hist)
	}
	return out, nil
}

// iterate runs n chaos-game samples of f into h.
func iterate(ctx context.Context, f *flame.Flame, h *Histogram, n, seed uint64, fuse int) error {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	scale := f.Scale()
	cx := float64(h.Width) / 2
	cy := float64(h.Height) / 2

	p, err := start(f, rng, fuse)
	if err != nil {
		return err
	}

	for i := uint64(0); i < n; i++ {
		if i%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		var plot geom.Point
		p, plot = f.Step(p, rng.Float64())
		h.Samples++

		if !p.IsFinite() {
			if p, err = start(f, rng, fuse); err != nil {
				return err
			}
			continue
		}
		if !plot.IsFinite() {
			continue
		}

		px := int(math.Floor((plot.X-f.CentreX)*scale + cx))
		py := int(math.Floor((plot.Y-f.CentreY)*scale + cy))
		h.Add(px, py, f.Palette.Lookup(plot.Color))
	}
	return nil
}

// start picks a random point in the bi-unit square and runs it through the
// fuse iterations. Points that escape are restarted.
func start(f *flame.Flame, rng *rand.Rand, fuse int) (geom.Point, error) {
	for retry := 0; retry < maxRetries; retry++ {
		p := geom.Point{
			X:     rng.Float64()*2 - 1,
			Y:     rng.Float64()*2 - 1,
			Color: rng.Float64(),
		}
		for i := 0; i < fuse && p.IsFinite(); i++ {
			p, _ = f.Step(p, rng.Float64())
		}
		if p.IsFinite() {
			return p, nil
		}
	}
	return geom.Point{}, ErrDiverged
}

// ErrDiverged is returned when every starting point escapes to infinity or
// NaN, as happens for a pie variation with a fold count of zero.
var ErrDiverged = errors.New("iteration diverged: every starting point became non-finite")
