// Package pipeline provides the load → render → encode pipeline shared by the
// flamekit CLI and HTTP service.
//
// By centralizing this logic, both entry points validate, cache, and log
// renders the same way.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: read the flame document and apply size overrides
//  2. Render: run the chaos game and tone-map the histogram
//  3. Encode: write the image as PNG or JPEG
//
// The encoded image is cached under a key derived from the canonical TOML
// form of the flame plus every option that changes the output bytes, so a
// reformatted but otherwise identical document still hits the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "examples/collideoscope.toml",
//	    Format: "png",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.png", result.Artifact, 0o644)
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamekit/pkg/cache"
	"github.com/matzehuels/flamekit/pkg/core/flame"
	"github.com/matzehuels/flamekit/pkg/core/render"
	"github.com/matzehuels/flamekit/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFormat is the default output format.
	DefaultFormat = render.FormatPNG

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = render.DefaultSeed
)

// Formats lists the supported output formats.
var Formats = []string{render.FormatPNG, render.FormatJPEG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the path of a TOML flame document. It is ignored when Flame
	// is set.
	Input string `json:"input,omitempty"`

	// Output options
	Format  string `json:"format,omitempty"`
	Width   int    `json:"width,omitempty"`  // Overrides the flame's width when positive
	Height  int    `json:"height,omitempty"` // Overrides the flame's height when positive
	Quality int    `json:"quality,omitempty"`

	// Sampling options
	Seed    uint64 `json:"seed,omitempty"`
	Samples uint64 `json:"samples,omitempty"` // Zero derives it from the flame's density
	Workers int    `json:"workers,omitempty"`

	// Cache options
	Refresh bool `json:"refresh,omitempty"` // Re-render and overwrite any cached artifact
	NoCache bool `json:"no_cache,omitempty"`

	// Runtime options (not serialized)
	Flame  *flame.Flame `json:"-"`
	Logger *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and HTTP responses.
	RunID string

	// Flame is the flame that was rendered, after size overrides.
	Flame *flame.Flame

	// FlameHash is the content hash of the flame's canonical document.
	FlameHash string

	// Format is the normalized output format.
	Format string

	// Artifact is the encoded image.
	Artifact []byte

	// Warnings lists accepted settings that degrade the render.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics. Render fields are zero on
// a cache hit.
type Stats struct {
	Width, Height int
	Samples       uint64
	Hits          uint64
	Bytes         int
	LoadTime      time.Duration
	RenderTime    time.Duration
	EncodeTime    time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Flame == nil && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file or flame is required")
	}

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	o.Format = render.NormalizeFormat(o.Format)
	if err := errors.ValidateFormat(o.Format, Formats); err != nil {
		return err
	}

	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size overrides must not be negative, got %dx%d", o.Width, o.Height)
	}
	if o.Width > errors.MaxDimension || o.Height > errors.MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "size %dx%d exceeds maximum %d", o.Width, o.Height, errors.MaxDimension)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "quality must be in 0..100, got %d", o.Quality)
	}
	if o.Format == render.FormatJPEG && o.Quality == 0 {
		o.Quality = render.DefaultJPEGQuality
	}
	if o.Format == render.FormatPNG {
		o.Quality = 0
	}

	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for the encoded image.
func (o *Options) ArtifactKeyOpts(f *flame.Flame) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  o.Format,
		Width:   f.Width,
		Height:  f.Height,
		Quality: o.Quality,
		Seed:    o.Seed,
		Samples: o.Samples,
		Workers: o.Workers,
	}
}

// RenderOptions returns the options passed to the renderer.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Samples: o.Samples,
		Workers: o.Workers,
		Seed:    o.Seed,
	}
}
