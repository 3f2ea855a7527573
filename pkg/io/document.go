package io

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/flamekit/pkg/core/flame"
	"github.com/matzehuels/flamekit/pkg/core/geom"
	"github.com/matzehuels/flamekit/pkg/core/variation"
	"github.com/matzehuels/flamekit/pkg/errors"
	"github.com/matzehuels/flamekit/pkg/palette"
)

type document struct {
	Name         string   `toml:"name,omitempty" json:"name,omitempty"`
	Width        int      `toml:"width" json:"width"`
	Height       int      `toml:"height" json:"height"`
	Palette      string   `toml:"palette,omitempty" json:"palette,omitempty"`
	PaletteStops []string `toml:"palette_stops,omitempty" json:"palette_stops,omitempty"`
	PreserveZ    bool     `toml:"preserve_z" json:"preserve_z"`
	Camera       camera   `toml:"camera" json:"camera"`
	Tone         tone     `toml:"tone" json:"tone"`
	Sampling     sampling `toml:"sampling" json:"sampling"`
	XForms       []xform  `toml:"xform" json:"xforms"`
	Final        *xform   `toml:"final,omitempty" json:"final,omitempty"`
}

type camera struct {
	Centre        [2]float64 `toml:"centre" json:"centre"`
	PixelsPerUnit float64    `toml:"pixels_per_unit" json:"pixels_per_unit"`
	Zoom          float64    `toml:"zoom" json:"zoom"`
}

type tone struct {
	Brightness     float64 `toml:"brightness" json:"brightness"`
	Gamma          float64 `toml:"gamma" json:"gamma"`
	GammaThreshold float64 `toml:"gamma_threshold" json:"gamma_threshold"`
	Vibrancy       float64 `toml:"vibrancy" json:"vibrancy"`
}

type sampling struct {
	Oversample int     `toml:"oversample" json:"oversample"`
	Density    float64 `toml:"density" json:"density"`
}

type xform struct {
	Weight     *float64         `toml:"weight,omitempty" json:"weight,omitempty"`
	Color      float64          `toml:"color" json:"color"`
	ColorSpeed *float64         `toml:"color_speed,omitempty" json:"color_speed,omitempty"`
	Coefs      []float64        `toml:"coefs,omitempty" json:"coefs,omitempty"`
	Post       []float64        `toml:"post,omitempty" json:"post,omitempty"`
	Variations []variationEntry `toml:"variation" json:"variations"`
}

type variationEntry struct {
	Name   string             `toml:"name" json:"name"`
	Amount float64            `toml:"amount" json:"amount"`
	Params map[string]float64 `toml:"params,omitempty" json:"params,omitempty"`
}

// newDocument returns a document holding the default flame settings, so
// keys missing from the input keep their defaults when decoded over it.
func newDocument() document {
	return fromFlameSettings(flame.Default())
}

func fromFlameSettings(f *flame.Flame) document {
	return document{
		Name:      f.Name,
		Width:     f.Width,
		Height:    f.Height,
		Palette:   f.PaletteName,
		PreserveZ: f.PreserveZ,
		Camera: camera{
			Centre:        [2]float64{f.CentreX, f.CentreY},
			PixelsPerUnit: f.PixelsPerUnit,
			Zoom:          f.Zoom,
		},
		Tone: tone{
			Brightness:     f.Brightness,
			Gamma:          f.Gamma,
			GammaThreshold: f.GammaThreshold,
			Vibrancy:       f.Vibrancy,
		},
		Sampling: sampling{
			Oversample: f.Oversample,
			Density:    f.SampleDensity,
		},
	}
}

// fromFlame converts f into its document form. A custom palette is written
// with the stops it was read from; one built in code has its gradient
// sampled at evenly spaced stops.
func fromFlame(f *flame.Flame) document {
	doc := fromFlameSettings(f)
	if doc.Palette == "" {
		if len(f.PaletteStops) > 0 {
			doc.PaletteStops = slices.Clone(f.PaletteStops)
		} else {
			doc.PaletteStops = sampleStops(&f.Palette)
		}
	}
	doc.XForms = make([]xform, len(f.XForms))
	for i, x := range f.XForms {
		doc.XForms[i] = fromXForm(x)
	}
	if f.Final != nil {
		final := fromXForm(f.Final)
		final.Weight = nil
		doc.Final = &final
	}
	return doc
}

func fromXForm(x *flame.XForm) xform {
	weight, speed := x.Weight, x.ColorSpeed
	coefs := x.Affine.Coefs()
	out := xform{
		Weight:     &weight,
		Color:      x.Color,
		ColorSpeed: &speed,
		Coefs:      coefs[:],
		Variations: make([]variationEntry, len(x.Variations)),
	}
	if x.Post != nil {
		post := x.Post.Coefs()
		out.Post = post[:]
	}
	for i, e := range x.Variations {
		entry := variationEntry{Name: e.Func.Name(), Amount: e.Amount}
		names, values := e.Func.ParamNames(), e.Func.ParamValues()
		if len(names) > 0 {
			entry.Params = make(map[string]float64, len(names))
			for j, n := range names {
				entry.Params[n] = values[j]
			}
		}
		out.Variations[i] = entry
	}
	return out
}

const paletteSampleStops = 16

func sampleStops(p *palette.Palette) []string {
	stops := make([]string, paletteSampleStops)
	for i := range stops {
		stops[i] = p.Lookup(float64(i) / float64(paletteSampleStops-1)).Hex()
	}
	return stops
}

// toFlame builds a flame from a decoded document.
func (doc *document) toFlame() (*flame.Flame, error) {
	f := flame.Default()
	f.Name = doc.Name
	f.Width, f.Height = doc.Width, doc.Height
	f.PreserveZ = doc.PreserveZ
	f.CentreX, f.CentreY = doc.Camera.Centre[0], doc.Camera.Centre[1]
	f.PixelsPerUnit = doc.Camera.PixelsPerUnit
	f.Zoom = doc.Camera.Zoom
	f.Brightness = doc.Tone.Brightness
	f.Gamma = doc.Tone.Gamma
	f.GammaThreshold = doc.Tone.GammaThreshold
	f.Vibrancy = doc.Tone.Vibrancy
	f.Oversample = doc.Sampling.Oversample
	f.SampleDensity = doc.Sampling.Density

	if err := doc.applyPalette(f); err != nil {
		return nil, err
	}

	for i := range doc.XForms {
		x, err := doc.XForms[i].toXForm(fmt.Sprintf("xform %d", i))
		if err != nil {
			return nil, err
		}
		f.AddXForm(x)
	}
	if doc.Final != nil {
		x, err := doc.Final.toXForm("final")
		if err != nil {
			return nil, err
		}
		f.Final = x
	}
	return f, nil
}

func (doc *document) applyPalette(f *flame.Flame) error {
	if len(doc.PaletteStops) > 0 {
		p, err := palette.FromHex(doc.PaletteStops...)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPalette, err, "invalid palette_stops")
		}
		f.PaletteName = ""
		f.Palette = p
		f.PaletteStops = slices.Clone(doc.PaletteStops)
		return nil
	}
	name := doc.Palette
	if name == "" {
		name = palette.DefaultName
	}
	p, ok := palette.ByName(name)
	if !ok {
		return errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q (known: %v)", name, palette.Names())
	}
	f.PaletteName = name
	f.Palette = p
	f.PaletteStops = nil
	return nil
}

func (d *xform) toXForm(label string) (*flame.XForm, error) {
	x := flame.NewXForm()
	if d.Weight != nil {
		x.Weight = *d.Weight
	}
	if d.ColorSpeed != nil {
		x.ColorSpeed = *d.ColorSpeed
	}
	x.Color = d.Color

	if d.Coefs != nil {
		a, err := affine(label+" coefs", d.Coefs)
		if err != nil {
			return nil, err
		}
		x.Affine = a
	}
	if d.Post != nil {
		a, err := affine(label+" post", d.Post)
		if err != nil {
			return nil, err
		}
		x.Post = &a
	}

	for _, e := range d.Variations {
		if err := errors.ValidateIdentifier("variation", e.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		v, ok := variation.New(e.Name)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownVariation, "%s: unknown variation %q", label, e.Name)
		}
		for _, k := range sortedKeys(e.Params) {
			v.SetParam(k, e.Params[k])
		}
		x.AddVariation(v, e.Amount)
	}
	return x, nil
}

func affine(field string, c []float64) (geom.Affine, error) {
	if len(c) != 6 {
		return geom.Affine{}, errors.New(errors.ErrCodeInvalidFlame, "%s must have 6 values, got %d", field, len(c))
	}
	return geom.AffineFromCoefs([6]float64(c)), nil
}

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}
