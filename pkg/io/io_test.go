package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/flamekit/pkg/core/flame"
	"github.com/matzehuels/flamekit/pkg/core/variation"
	"github.com/matzehuels/flamekit/pkg/errors"
)

const collideoscope = `
name    = "collideoscope"
width   = 320
height  = 240
palette = "ice"

[camera]
centre          = [0.5, -0.25]
pixels_per_unit = 120

[tone]
gamma = 2.2

[[xform]]
weight = 2
color  = 0.2
coefs  = [0.5, 0, 0, 0.5, 0, 0]

  [[xform.variation]]
  name   = "pie"
  amount = 1
  params = { a = 0.3, num = 6 }

[[xform]]
coefs = [0.5, 0, 0, 0.5, 0.5, 0.5]
post  = [1, 0, 0, 1, 0.1, 0]

  [[xform.variation]]
  name   = "linear"
  amount = 0.5

  [[xform.variation]]
  name   = "spherical"
  amount = 0.5

[final]
  [[final.variation]]
  name   = "linear"
  amount = 1
`

func TestReadTOML(t *testing.T) {
	f, err := ReadTOML(strings.NewReader(collideoscope))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}

	if f.Name != "collideoscope" || f.Width != 320 || f.Height != 240 {
		t.Errorf("header = %q %dx%d", f.Name, f.Width, f.Height)
	}
	if f.PaletteName != "ice" {
		t.Errorf("PaletteName = %q, want ice", f.PaletteName)
	}
	if f.CentreX != 0.5 || f.CentreY != -0.25 || f.PixelsPerUnit != 120 {
		t.Errorf("camera = (%v, %v) ppu %v", f.CentreX, f.CentreY, f.PixelsPerUnit)
	}
	if f.Gamma != 2.2 {
		t.Errorf("Gamma = %v, want 2.2", f.Gamma)
	}
	if f.Brightness != flame.DefaultBrightness {
		t.Errorf("Brightness = %v, want default %v", f.Brightness, flame.DefaultBrightness)
	}

	if len(f.XForms) != 2 {
		t.Fatalf("len(XForms) = %d, want 2", len(f.XForms))
	}
	x0, x1 := f.XForms[0], f.XForms[1]
	if x0.Weight != 2 || x0.Color != 0.2 || x0.Affine.A != 0.5 {
		t.Errorf("xform 0 = %+v", x0)
	}
	if x1.Weight != 1 || x1.ColorSpeed != flame.DefaultColorSpeed {
		t.Errorf("xform 1 defaults: weight %v, color speed %v", x1.Weight, x1.ColorSpeed)
	}
	if x1.Post == nil || x1.Post.E != 0.1 {
		t.Errorf("xform 1 post = %+v", x1.Post)
	}
	if len(x1.Variations) != 2 {
		t.Errorf("xform 1 variations = %d, want 2", len(x1.Variations))
	}

	pie, ok := x0.Variations[0].Func.(*variation.Pie)
	if !ok {
		t.Fatalf("xform 0 variation = %T, want *variation.Pie", x0.Variations[0].Func)
	}
	if pie.Amplitude() != 0.3 || pie.FoldCount() != 6 {
		t.Errorf("pie params = a %v num %v, want a 0.3 num 6", pie.Amplitude(), pie.FoldCount())
	}

	if f.Final == nil || len(f.Final.Variations) != 1 {
		t.Errorf("Final = %+v", f.Final)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestReadTOMLDefaults(t *testing.T) {
	f, err := ReadTOML(strings.NewReader(`
[[xform]]
  [[xform.variation]]
  name = "pie"
  amount = 1
`))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}
	if f.Width != flame.DefaultWidth || f.PaletteName != "fire" {
		t.Errorf("defaults not applied: %dx%d palette %q", f.Width, f.Height, f.PaletteName)
	}
	if !f.XForms[0].Affine.IsIdentity() {
		t.Errorf("affine = %+v, want identity", f.XForms[0].Affine)
	}
	pie := f.XForms[0].Variations[0].Func.(*variation.Pie)
	if pie.Amplitude() != variation.DefaultPieAmplitude || pie.FoldCount() != variation.DefaultPieFoldCount {
		t.Errorf("pie defaults = %v, %v", pie.Amplitude(), pie.FoldCount())
	}
}

func TestReadTOMLFoldCountRounds(t *testing.T) {
	f, err := ReadTOML(strings.NewReader(`
[[xform]]
  [[xform.variation]]
  name = "pie"
  amount = 1
  params = { num = 2.6, unknown = 7 }
`))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}
	if got := f.XForms[0].Variations[0].Func.(*variation.Pie).FoldCount(); got != 3 {
		t.Errorf("FoldCount() = %d, want 3", got)
	}
}

func TestReadTOMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", "width = ", errors.ErrCodeInvalidFlame},
		{"unknown key", "widht = 10", errors.ErrCodeInvalidFlame},
		{"short coefs", "[[xform]]\ncoefs = [1, 0, 0]", errors.ErrCodeInvalidFlame},
		{"long post", "[[xform]]\npost = [1, 0, 0, 1, 0, 0, 0]", errors.ErrCodeInvalidFlame},
		{"unknown variation", "[[xform]]\n[[xform.variation]]\nname = \"swirl\"", errors.ErrCodeUnknownVariation},
		{"bad variation name", "[[xform]]\n[[xform.variation]]\nname = \"Pie\"", errors.ErrCodeInvalidInput},
		{"unknown palette", `palette = "sunset"`, errors.ErrCodeInvalidPalette},
		{"bad palette stop", `palette_stops = ["#zzzzzz"]`, errors.ErrCodeInvalidPalette},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTOML(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadTOML() expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	f, err := ReadTOML(strings.NewReader(collideoscope))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}

	var first bytes.Buffer
	if err := WriteTOML(f, &first); err != nil {
		t.Fatalf("WriteTOML() error: %v", err)
	}
	g, err := ReadTOML(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("ReadTOML(WriteTOML()) error: %v\n%s", err, first.String())
	}
	var second bytes.Buffer
	if err := WriteTOML(g, &second); err != nil {
		t.Fatalf("WriteTOML() error: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("round trip not canonical:\n--- first\n%s\n--- second\n%s", first.String(), second.String())
	}
	pie := g.XForms[0].Variations[0].Func.(*variation.Pie)
	if pie.FoldCount() != 6 || pie.Amplitude() != 0.3 {
		t.Errorf("pie after round trip = a %v num %v", pie.Amplitude(), pie.FoldCount())
	}
}

func TestRoundTripCustomPalette(t *testing.T) {
	f, err := ReadTOML(strings.NewReader(`
palette_stops = ["#000000", "#ffffff"]
[[xform]]
  [[xform.variation]]
  name = "linear"
  amount = 1
`))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}
	if f.PaletteName != "" {
		t.Errorf("PaletteName = %q, want empty for custom palette", f.PaletteName)
	}

	var buf bytes.Buffer
	if err := WriteTOML(f, &buf); err != nil {
		t.Fatalf("WriteTOML() error: %v", err)
	}
	g, err := ReadTOML(&buf)
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}
	if g.Palette != f.Palette {
		t.Error("palette changed across WriteTOML/ReadTOML")
	}
	if !slices.Equal(g.PaletteStops, f.PaletteStops) {
		t.Errorf("PaletteStops = %v, want %v", g.PaletteStops, f.PaletteStops)
	}
}

func TestWriteTOMLKeepsPaletteStops(t *testing.T) {
	doc := func(second string) string {
		stops := make([]string, 32)
		for i := range stops {
			stops[i] = `"#808080"`
		}
		stops[1] = `"` + second + `"`
		return "palette_stops = [" + strings.Join(stops, ", ") + "]\n" +
			"[[xform]]\n[[xform.variation]]\nname = \"pie\"\namount = 1\n"
	}

	var out [2]string
	for i, second := range []string{"#ff0000", "#0000ff"} {
		f, err := ReadTOML(strings.NewReader(doc(second)))
		if err != nil {
			t.Fatalf("ReadTOML(%s) error: %v", second, err)
		}
		var buf bytes.Buffer
		if err := WriteTOML(f, &buf); err != nil {
			t.Fatalf("WriteTOML() error: %v", err)
		}
		if !strings.Contains(buf.String(), second) {
			t.Errorf("WriteTOML() dropped stop %s:\n%s", second, buf.String())
		}
		out[i] = buf.String()
	}
	if out[0] == out[1] {
		t.Error("flames with different palette stops wrote identical documents")
	}
}

func TestImportExportTOML(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "spiral.toml")
	if err := os.WriteFile(src, []byte("[[xform]]\n[[xform.variation]]\nname = \"pie\"\namount = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := ImportTOML(src)
	if err != nil {
		t.Fatalf("ImportTOML() error: %v", err)
	}
	if f.Name != "spiral" {
		t.Errorf("Name = %q, want spiral from file name", f.Name)
	}

	dst := filepath.Join(dir, "out.toml")
	if err := ExportTOML(f, dst); err != nil {
		t.Fatalf("ExportTOML() error: %v", err)
	}
	g, err := ImportTOML(dst)
	if err != nil {
		t.Fatalf("ImportTOML() error: %v", err)
	}
	if g.Name != "spiral" {
		t.Errorf("Name after export = %q, want spiral", g.Name)
	}
}

func TestImportTOMLMissing(t *testing.T) {
	_, err := ImportTOML(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportTOML() code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestWriteJSON(t *testing.T) {
	f, err := ReadTOML(strings.NewReader(collideoscope))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(f, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var out struct {
		Name   string `json:"name"`
		XForms []struct {
			Variations []struct {
				Name   string             `json:"name"`
				Params map[string]float64 `json:"params"`
			} `json:"variations"`
		} `json:"xforms"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out.Name != "collideoscope" || len(out.XForms) != 2 {
		t.Fatalf("decoded = %+v", out)
	}
	v := out.XForms[0].Variations[0]
	if v.Name != "pie" || v.Params["num"] != 6 || v.Params["a"] != 0.3 {
		t.Errorf("pie entry = %+v", v)
	}
}

func TestExampleFlames(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example flames")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			f, err := ImportTOML(path)
			if err != nil {
				t.Fatalf("ImportTOML() error: %v", err)
			}
			if err := f.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if w := f.Warnings(); len(w) > 0 {
				t.Errorf("Warnings() = %v, want none", w)
			}
		})
	}
}
