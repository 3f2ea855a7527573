// Package pkg provides the core libraries for flamekit, a fractal flame
// renderer.
//
// # Overview
//
// A flame is a weighted set of transforms. Each transform applies an affine
// map, then a blend of variations such as "pie", then an optional post
// affine. The chaos game repeatedly picks a transform at random and plots
// the resulting points into a histogram, which is tone mapped into an image.
// The pkg directory is organized into these areas:
//
//  1. [core] - Domain logic (geometry, variations, flames, rendering)
//  2. [io] - TOML and JSON flame documents
//  3. [pipeline] - Orchestration (load → render → encode) with caching
//  4. [api] - HTTP render service
//  5. [cache], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through flamekit:
//
//	TOML flame document
//	         ↓
//	    [io] package (decode, resolve variations by name)
//	         ↓
//	    [core/flame] package (validate, init per pass)
//	         ↓
//	    [core/render] package (chaos game, tone map)
//	         ↓
//	    PNG/JPEG output
//
// # Quick Start
//
// Render a flame document:
//
//	f, _ := io.ImportTOML("examples/collideoscope.toml")
//	hist, _ := render.Render(ctx, f, render.Options{Workers: 4})
//	img := render.ToneMap(hist, f)
//	render.Encode(out, img, render.FormatPNG, 0)
//
// Or let the pipeline handle validation and caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Input: "flame.toml"})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/core/variation/   # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/core
// [core/flame]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/core/flame
// [core/render]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/core/render
// [io]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/api
// [cache]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flamekit/pkg/buildinfo
package pkg
