// Package render turns a flame into an image with the chaos game.
//
// # Overview
//
// Rendering has two stages:
//
//  1. [Render] iterates the flame's xforms from random starting points and
//     accumulates every plotted sample into a [Histogram] of colour sums and
//     hit counts.
//  2. [ToneMap] converts the histogram into an image with log-density
//     scaling, gamma, and vibrancy, then downscales oversampled output.
//
// [Encode] writes the result as PNG or JPEG.
//
// # Concurrency
//
// Render splits the sample budget across workers. Each worker owns a
// [flame.Flame.Clone] that it Inits before iterating, its own random source,
// and its own histogram, so variations never share mutable state. Worker
// histograms are merged in worker order once all have finished, which keeps
// output reproducible for a fixed seed and worker count.
//
// Cancellation is checked between batches of samples; a cancelled render
// returns the context error and no histogram.
//
// # Pipeline Position
//
//	io.ReadTOML → flame.Flame → [Render] → [ToneMap] → [Encode]
package render
