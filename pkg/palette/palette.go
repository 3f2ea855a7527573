// Package palette provides the colour gradients flames are shaded with.
//
// A [Palette] holds [Size] colours. Each chaos-game sample carries a colour
// index in [0, 1] which [Palette.Lookup] maps onto the gradient. Gradients
// are blended in HCL space with go-colorful, which keeps perceived lightness
// even across the stops.
package palette

import (
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of entries in a palette.
const Size = 256

// Palette is a fixed-size colour lookup table.
type Palette [Size]colorful.Color

// Gradient builds a palette from evenly spaced colour stops.
// A single stop yields a flat palette.
func Gradient(stops ...colorful.Color) Palette {
	var p Palette
	switch len(stops) {
	case 0:
		return p
	case 1:
		for i := range p {
			p[i] = stops[0]
		}
		return p
	}

	segments := float64(len(stops) - 1)
	for i := range p {
		t := float64(i) / float64(Size-1) * segments
		k := int(t)
		if k >= len(stops)-1 {
			k = len(stops) - 2
		}
		p[i] = stops[k].BlendHcl(stops[k+1], t-float64(k)).Clamped()
	}
	return p
}

// FromHex builds a gradient from hex stops such as "#ff8800".
func FromHex(stops ...string) (Palette, error) {
	colors := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return Palette{}, fmt.Errorf("palette stop %d: %w", i, err)
		}
		colors[i] = c
	}
	return Gradient(colors...), nil
}

// Lookup returns the colour at index c, clamped to [0, 1].
func (p *Palette) Lookup(c float64) colorful.Color {
	switch {
	case math.IsNaN(c) || c <= 0:
		return p[0]
	case c >= 1:
		return p[Size-1]
	}
	return p[int(c*(Size-1))]
}

var builtins = map[string][]string{
	"fire": {"#000000", "#5c0a00", "#d93a00", "#ffb300", "#fff6d5"},
	"ice":  {"#000814", "#003566", "#0077b6", "#90e0ef", "#ffffff"},
	"mono": {"#202020", "#ffffff"},
}

// DefaultName is the palette used when a flame names none.
const DefaultName = "fire"

// ByName returns a built-in palette.
func ByName(name string) (Palette, bool) {
	stops, ok := builtins[name]
	if !ok {
		return Palette{}, false
	}
	p, err := FromHex(stops...)
	if err != nil {
		return Palette{}, false
	}
	return p, true
}

// Names lists the built-in palettes, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
