package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flamekit/pkg/cache"
	"github.com/matzehuels/flamekit/pkg/core/flame"
	"github.com/matzehuels/flamekit/pkg/core/render"
	"github.com/matzehuels/flamekit/pkg/errors"
	flameio "github.com/matzehuels/flamekit/pkg/io"
	"github.com/matzehuels/flamekit/pkg/observability"
)

// cacheKeyType labels artifact events for the cache hooks.
const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → render → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{
		RunID:  uuid.NewString(),
		Format: opts.Format,
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	f, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Flame = f
	result.Warnings = f.Warnings()
	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	var doc bytes.Buffer
	if err := flameio.WriteTOML(f, &doc); err != nil {
		return nil, fmt.Errorf("canonicalize flame: %w", err)
	}
	result.FlameHash = cache.Hash(doc.Bytes())
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Width, result.Stats.Height = f.Width, f.Height

	logger.Debug("loaded flame",
		"name", f.Name,
		"xforms", len(f.XForms),
		"variations", f.VariationNames(),
		"hash", result.FlameHash[:12])

	cacheKey := r.Keyer.ArtifactKey(result.FlameHash, opts.ArtifactKeyOpts(f))

	// Try cache first (unless refresh requested)
	if !opts.NoCache && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil {
			logger.Warn("cache read failed", "error", err)
		}
		if hit {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			result.Artifact = data
			result.CacheHit = true
			result.Stats.Bytes = len(data)
			logger.Info("served from cache", "name", f.Name, "bytes", len(data))
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	// Stage 2: Render
	renderStart := time.Now()
	hist, err := r.render(ctx, f, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	img := render.ToneMap(hist, f)
	result.Stats.Samples = hist.Samples
	result.Stats.Hits = hist.Hits()

	logger.Info("rendered flame",
		"name", f.Name,
		"size", fmt.Sprintf("%dx%d", f.Width, f.Height),
		"samples", hist.Samples,
		"hits", result.Stats.Hits,
		"duration", result.Stats.RenderTime)

	// Stage 3: Encode
	encodeStart := time.Now()
	var out bytes.Buffer
	err = render.Encode(&out, img, opts.Format, opts.Quality)
	result.Stats.EncodeTime = time.Since(encodeStart)
	observability.Render().OnEncode(ctx, opts.Format, out.Len(), result.Stats.EncodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", errors.Wrap(errors.ErrCodeInternal, err, "encode %s", opts.Format))
	}
	result.Artifact = out.Bytes()
	result.Stats.Bytes = out.Len()

	// Cache the result
	if !opts.NoCache {
		if err := r.Cache.Set(ctx, cacheKey, result.Artifact, cache.TTLArtifact); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(result.Artifact))
		}
	}

	return result, nil
}

// Load returns the flame named by opts, with size overrides applied and
// validated. The caller's opts.Flame is cloned, never modified.
func (r *Runner) Load(opts Options) (*flame.Flame, error) {
	var f *flame.Flame
	if opts.Flame != nil {
		f = opts.Flame.Clone()
	} else {
		var err error
		if f, err = flameio.ImportTOML(opts.Input); err != nil {
			return nil, err
		}
	}

	if opts.Width > 0 || opts.Height > 0 {
		resize(f, opts.Width, opts.Height)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// resize sets the output size. When only one dimension is given the other
// follows the flame's aspect ratio. The camera scale changes with the width
// so that the same region of the plane stays in view.
func resize(f *flame.Flame, width, height int) {
	switch {
	case width > 0 && height == 0:
		height = max(1, f.Height*width/max(f.Width, 1))
	case height > 0 && width == 0:
		width = max(1, f.Width*height/max(f.Height, 1))
	}
	if f.Width > 0 {
		f.PixelsPerUnit *= float64(width) / float64(f.Width)
	}
	f.Width, f.Height = width, height
}

// render runs the chaos game with hooks and maps renderer errors to coded
// errors.
func (r *Runner) render(ctx context.Context, f *flame.Flame, opts Options) (*render.Histogram, error) {
	ro := opts.RenderOptions()
	observability.Render().OnRenderStart(ctx, f.Name, ro.Samples)

	start := time.Now()
	hist, err := render.Render(ctx, f, ro)
	var hits uint64
	if hist != nil {
		hits = hist.Hits()
	}
	observability.Render().OnRenderComplete(ctx, f.Name, hits, time.Since(start), err)

	switch {
	case err == nil:
		return hist, nil
	case stderrors.Is(err, render.ErrDiverged):
		return nil, errors.Wrap(errors.ErrCodeDiverged, err, "flame %q produced only non-finite points", f.Name)
	case stderrors.Is(err, render.ErrNoXForms):
		return nil, errors.Wrap(errors.ErrCodeInvalidFlame, err, "flame %q cannot be rendered", f.Name)
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "render timed out")
	}
	return nil, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
