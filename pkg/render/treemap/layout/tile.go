package layout

import "github.com/matzehuels/zoomtree/pkg/hierarchy"

// Reference is the default reference space tilings are computed in.
var Reference = Size{W: 1400, H: 700}

// Options configures [Apply].
type Options struct {
	// Bounds is the root rectangle. Defaults to [Unit].
	Bounds Rect
	// Reference is the space each node's children are tiled in before
	// being rescaled into the node. Defaults to [Reference].
	Reference Size
}

func (o Options) withDefaults() Options {
	if o.Bounds == (Rect{}) {
		o.Bounds = Unit
	}
	if o.Reference.W <= 0 || o.Reference.H <= 0 {
		o.Reference = Reference
	}
	return o
}

// Bounds returns the node's layout-space rectangle.
func Bounds(n *hierarchy.Node) Rect {
	return Rect{X0: n.X0, Y0: n.Y0, X1: n.X1, Y1: n.Y1}
}

func setBounds(n *hierarchy.Node, r Rect) {
	n.X0, n.Y0, n.X1, n.Y1 = r.X0, r.Y0, r.X1, r.Y1
}

// Tile assigns bounds to the direct children of n inside target.
//
// The children are tiled with [Binary] in the reference space
// [0, 0, ref.W, ref.H] and each rectangle is then rescaled linearly into
// target. A node without children is left untouched. A single child gets
// target exactly.
func Tile(n *hierarchy.Node, target Rect, ref Size) {
	switch len(n.Children) {
	case 0:
		return
	case 1:
		setBounds(n.Children[0], target)
		return
	}
	if ref.W <= 0 || ref.H <= 0 {
		ref = Reference
	}

	weights := make([]float64, len(n.Children))
	for i, c := range n.Children {
		weights[i] = c.Weight
	}
	rects := Binary(weights, Rect{X1: ref.W, Y1: ref.H})

	sx := target.Width() / ref.W
	sy := target.Height() / ref.H
	for i, c := range n.Children {
		r := rects[i]
		setBounds(c, Rect{
			X0: target.X0 + r.X0*sx,
			Y0: target.Y0 + r.Y0*sy,
			X1: target.X0 + r.X1*sx,
			Y1: target.Y0 + r.Y1*sy,
		})
	}
}

// Apply lays out the whole tree below root. The root receives opts.Bounds
// and every internal node has its children tiled into its own bounds.
func Apply(root *hierarchy.Node, opts Options) {
	opts = opts.withDefaults()
	setBounds(root, opts.Bounds)
	root.Each(func(n *hierarchy.Node) {
		Tile(n, Bounds(n), opts.Reference)
	})
}
