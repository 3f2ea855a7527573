// Package variation provides the point-transformation units ("variations")
// that flame xforms are built from.
//
// # Overview
//
// A variation maps an affine-transformed point to a contribution that is
// added into the xform's output point, scaled by a per-xform amount. Every
// variation implements [Func]:
//
//	v, _ := variation.New("pie")
//	v.SetParam("num", 6)
//	v.Init(ctx, 1.0)               // once per rendering pass
//	v.Transform(ctx, in, out, 1.0) // once per point
//
// # Lifecycle
//
// Parameters are set by name through [Func.SetParam]. Unknown names are
// ignored, so a host can feed a parameter bag from a flame file without
// knowing which variation consumes which key.
//
// [Func.Init] recomputes the derived constants a variation caches from its
// parameters. It must run after any parameter change and before the next
// [Func.Transform]. Transform only reads the cached state and accumulates
// into the caller's output point.
//
// # Concurrency
//
// Transform is safe to call from several goroutines as long as each uses its
// own output point and no Init runs concurrently. Renderers normally give
// each worker its own [Func.Clone] and Init the clones before starting.
//
// # Registry
//
// Variations register a factory under their name from an init function.
// [New] builds a fresh instance with default parameters and [Names] lists
// what is available:
//
//	for _, name := range variation.Names() {
//	    v, _ := variation.New(name)
//	    fmt.Println(name, v.ParamNames())
//	}
//
// # The pie Variation
//
// [Pie] folds the polar angle of the input into foldCount mirrored wedges,
// each shifted by an amplitude expressed as a fraction of π. The radius is
// preserved; only the angle changes. See [Pie.Transform] for the exact rule.
package variation
