package flame

import (
	"fmt"

	"github.com/matzehuels/flamekit/pkg/core/variation"
	"github.com/matzehuels/flamekit/pkg/errors"
)

// Validate checks the flame's settings and xforms.
//
// Variation parameters are not checked. A pie fold count of zero, for
// example, passes validation and renders as non-finite samples; see
// [Flame.Warnings] for a non-fatal report of such settings.
func (f *Flame) Validate() error {
	if err := errors.ValidateDimensions(f.Width, f.Height); err != nil {
		return err
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"pixels_per_unit", f.PixelsPerUnit},
		{"gamma", f.Gamma},
		{"sample_density", f.SampleDensity},
	} {
		if err := errors.ValidatePositive(c.name, c.v); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"centre_x", f.CentreX},
		{"centre_y", f.CentreY},
		{"zoom", f.Zoom},
		{"brightness", f.Brightness},
		{"gamma_threshold", f.GammaThreshold},
		{"vibrancy", f.Vibrancy},
	} {
		if err := errors.ValidateFinite(c.name, c.v); err != nil {
			return err
		}
	}
	if f.Oversample < 1 || f.Oversample > 8 {
		return errors.New(errors.ErrCodeInvalidFlame, "oversample must be in 1..8, got %d", f.Oversample)
	}
	if w, h := f.RenderSize(); w > errors.MaxDimension || h > errors.MaxDimension {
		return errors.New(errors.ErrCodeInvalidFlame, "oversampled size %dx%d exceeds maximum %d", w, h, errors.MaxDimension)
	}

	if len(f.XForms) == 0 {
		return errors.New(errors.ErrCodeInvalidFlame, "flame has no xforms")
	}
	positive := false
	for i, x := range f.XForms {
		if err := validateXForm(fmt.Sprintf("xform %d", i), x); err != nil {
			return err
		}
		if x.Weight < 0 {
			return errors.New(errors.ErrCodeInvalidFlame, "xform %d: weight must not be negative, got %v", i, x.Weight)
		}
		if x.Weight > 0 {
			positive = true
		}
	}
	if !positive {
		return errors.New(errors.ErrCodeInvalidFlame, "flame has no xform with positive weight")
	}
	if f.Final != nil {
		if err := validateXForm("final xform", f.Final); err != nil {
			return err
		}
	}
	return nil
}

func validateXForm(label string, x *XForm) error {
	if len(x.Variations) == 0 {
		return errors.New(errors.ErrCodeInvalidFlame, "%s has no variations", label)
	}
	for _, c := range x.Affine.Coefs() {
		if err := errors.ValidateFinite(label+" coefs", c); err != nil {
			return err
		}
	}
	if x.Post != nil {
		for _, c := range x.Post.Coefs() {
			if err := errors.ValidateFinite(label+" post", c); err != nil {
				return err
			}
		}
	}
	for _, e := range x.Variations {
		if err := errors.ValidateFinite(label+" "+e.Func.Name()+" amount", e.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Warnings returns human-readable notes about settings that are accepted
// but will degrade the render.
func (f *Flame) Warnings() []string {
	var out []string
	check := func(label string, x *XForm) {
		for _, e := range x.Variations {
			if p, ok := e.Func.(*variation.Pie); ok && p.FoldCount() == 0 {
				out = append(out, fmt.Sprintf("%s: pie num=0 produces non-finite output", label))
			}
		}
	}
	for i, x := range f.XForms {
		check(fmt.Sprintf("xform %d", i), x)
	}
	if f.Final != nil {
		check("final xform", f.Final)
	}
	return out
}
