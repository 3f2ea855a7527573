// Package io reads and writes flame documents.
//
// # TOML Format
//
// A flame document is a TOML file. Every top-level table is optional and
// falls back to the defaults of [flame.Default]; only the xforms are
// required:
//
//	name    = "collideoscope"
//	width   = 800
//	height  = 600
//	palette = "fire"
//
//	[camera]
//	centre          = [0.0, 0.0]
//	pixels_per_unit = 120
//	zoom            = 0
//
//	[tone]
//	brightness = 4
//	gamma      = 4
//
//	[[xform]]
//	weight = 1
//	color  = 0.2
//	coefs  = [0.5, 0, 0, 0.5, 0, 0]
//
//	  [[xform.variation]]
//	  name   = "pie"
//	  amount = 1
//	  params = { a = 0.2, num = 6 }
//
// The coefs array holds the affine coefficients a through f, mapping
// x' = a·x + c·y + e and y' = b·x + d·y + f. An optional post array of the
// same shape is applied after the variations. A single [final] table, with
// the same keys as an xform, is applied to every plotted point.
//
// A custom gradient can replace the named palette with palette_stops, a
// list of hex colours.
//
// # Errors
//
// Decoding fails with an [errors.ErrCodeInvalidFlame] error for malformed
// TOML, unknown keys, or coefficient arrays of the wrong length, and with
// [errors.ErrCodeUnknownVariation] for a variation name that is not
// registered. Parameters a variation does not recognise are passed through
// and ignored, as [variation.Func.SetParam] does.
//
// # Round Trips
//
// [WriteTOML] emits every setting explicitly, with map keys sorted, so the
// output of a decoded flame is canonical: two documents that describe the
// same flame encode to the same bytes. The pipeline relies on this for its
// cache keys.
//
// [WriteJSON] writes the same document as JSON for tools that do not read
// TOML.
//
// [errors.ErrCodeInvalidFlame]: github.com/matzehuels/flamekit/pkg/errors.ErrCodeInvalidFlame
// [errors.ErrCodeUnknownVariation]: github.com/matzehuels/flamekit/pkg/errors.ErrCodeUnknownVariation
package io
