package render

import "github.com/lucasb-eyer/go-colorful"

// Bin accumulates the colour sum and hit count of one pixel.
type Bin struct {
	R, G, B float64
	Count   float64
}

// Histogram is the accumulation buffer of a render.
type Histogram struct {
	Width, Height int
	Bins          []Bin

	// Samples is the number of iterations that fed the histogram, plotted
	// or not.
	Samples uint64
}

// NewHistogram allocates an empty w×h histogram.
func NewHistogram(w, h int) *Histogram {
	return &Histogram{
		Width:  w,
		Height: h,
		Bins:   make([]Bin, w*h),
	}
}

// Add records one sample of colour c at pixel (x, y). Out-of-range pixels
// are ignored.
func (h *Histogram) Add(x, y int, c colorful.Color) {
	if x < 0 || y < 0 || x >= h.Width || y >= h.Height {
		return
	}
	b := &h.Bins[y*h.Width+x]
	b.R += c.R
	b.G += c.G
	b.B += c.B
	b.Count++
}

// Merge adds o into h. Both must have the same size.
func (h *Histogram) Merge(o *Histogram) {
	for i := range h.Bins {
		b, ob := &h.Bins[i], &o.Bins[i]
		b.R += ob.R
		b.G += ob.G
		b.B += ob.B
		b.Count += ob.Count
	}
	h.Samples += o.Samples
}

// Hits returns the number of plotted samples.
func (h *Histogram) Hits() uint64 {
	var n float64
	for _, b := range h.Bins {
		n += b.Count
	}
	return uint64(n)
}

// Bin returns the bin at (x, y).
func (h *Histogram) Bin(x, y int) Bin {
	return h.Bins[y*h.Width+x]
}
