package render

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// DefaultJPEGQuality is used when Encode is given a quality outside 1..100.
const DefaultJPEGQuality = 90

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
}

// NormalizeFormat lowercases f and maps "jpg" to "jpeg".
func NormalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimPrefix(f, "."))
	if f == "jpg" {
		return FormatJPEG
	}
	return f
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if NormalizeFormat(format) == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img to w. quality applies to JPEG only.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch NormalizeFormat(format) {
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
