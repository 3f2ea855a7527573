package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/flamekit/pkg/core/flame"
)

// ToneMap converts h into an image of f's output size.
//
// Each bin is scaled by log(1 + count·k2)/count so dense regions compress
// instead of saturating. k2 normalises by the mean number of samples per
// bin, so the result does not depend on how long the render ran. Gamma is
// applied to the density with a linear ramp below GammaThreshold, and
// Vibrancy blends between gamma-on-density (saturated) and gamma-per-channel.
func ToneMap(h *Histogram, f *flame.Flame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, h.Width, h.Height))

	if h.Samples > 0 {
		k1 := f.Brightness * 268 / 256
		k2 := float64(len(h.Bins)) / float64(h.Samples)
		invGamma := 1 / nonZero(f.Gamma, flame.DefaultGamma)
		vib := clamp01(f.Vibrancy)

		for y := 0; y < h.Height; y++ {
			for x := 0; x < h.Width; x++ {
				b := h.Bins[y*h.Width+x]
				if b.Count <= 0 {
					img.SetNRGBA(x, y, color.NRGBA{A: 255})
					continue
				}

				ls := k1 * math.Log(1+b.Count*k2) / b.Count
				alpha := b.Count * ls
				ga := gammaRamp(alpha, invGamma, f.GammaThreshold)
				z := vib * ga / alpha

				channel := func(c float64) uint8 {
					c *= ls
					v := z*c + (1-vib)*math.Pow(c, invGamma)
					return uint8(clamp01(v)*255 + 0.5)
				}
				img.SetNRGBA(x, y, color.NRGBA{
					R: channel(b.R),
					G: channel(b.G),
					B: channel(b.B),
					A: 255,
				})
			}
		}
	} else {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 255
		}
	}

	if o := f.OversampleFactor(); o > 1 {
		return imaging.Resize(img, h.Width/o, h.Height/o, imaging.Lanczos)
	}
	return img
}

// gammaRamp applies x^invGamma, blending in a linear segment below threshold
// to avoid the infinite slope of the power curve at zero.
func gammaRamp(x, invGamma, threshold float64) float64 {
	if threshold <= 0 || x >= threshold {
		return math.Pow(x, invGamma)
	}
	frac := x / threshold
	linear := x * math.Pow(threshold, invGamma) / threshold
	return (1-frac)*linear + frac*math.Pow(x, invGamma)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func nonZero(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
