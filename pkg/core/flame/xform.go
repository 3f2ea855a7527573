package flame

import (
	"github.com/matzehuels/flamekit/pkg/core/geom"
	"github.com/matzehuels/flamekit/pkg/core/variation"
)

// DefaultColorSpeed is how far a sample's colour index moves toward the
// xform colour on each application.
const DefaultColorSpeed = 0.5

// Entry is one weighted variation inside an xform.
type Entry struct {
	Func   variation.Func
	Amount float64
}

// XForm is one function of the iterated function system: an affine
// pre-transform, a weighted sum of variations, and an optional post-transform.
type XForm struct {
	Weight     float64
	Color      float64
	ColorSpeed float64
	Affine     geom.Affine
	Post       *geom.Affine
	Variations []Entry
}

// NewXForm returns an identity xform with weight 1 and no variations.
func NewXForm() *XForm {
	return &XForm{
		Weight:     1,
		ColorSpeed: DefaultColorSpeed,
		Affine:     geom.Identity,
	}
}

// AddVariation appends v with the given amount.
func (x *XForm) AddVariation(v variation.Func, amount float64) {
	x.Variations = append(x.Variations, Entry{Func: v, Amount: amount})
}

// Init runs Init on every variation with its amount.
func (x *XForm) Init(ctx *variation.Context) {
	for _, e := range x.Variations {
		e.Func.Init(ctx, e.Amount)
	}
}

// Apply maps p through the xform. Every variation accumulates into the same
// zeroed output point, so their contributions sum.
func (x *XForm) Apply(ctx *variation.Context, p geom.Point) geom.Point {
	affine := x.Affine.Apply(p)

	var out geom.Point
	for _, e := range x.Variations {
		e.Func.Transform(ctx, &affine, &out, e.Amount)
	}
	if x.Post != nil {
		out = x.Post.Apply(out)
	}

	out.Color = p.Color + (x.Color-p.Color)*x.ColorSpeed
	return out
}

// Clone deep-copies the xform, cloning each variation. The copy's
// variations must be Init'ed before use.
func (x *XForm) Clone() *XForm {
	c := *x
	if x.Post != nil {
		post := *x.Post
		c.Post = &post
	}
	c.Variations = make([]Entry, len(x.Variations))
	for i, e := range x.Variations {
		c.Variations[i] = Entry{Func: e.Func.Clone(), Amount: e.Amount}
	}
	return &c
}
