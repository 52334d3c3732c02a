package pipeline

import (
	"context"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/color"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/layout"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/zoom"
)

// View is a live treemap: a scene and the controller navigating it.
//
// A View mutates the layout bounds of its tree, so each View needs a tree
// of its own; build one per View from the same RawNode.
type View struct {
	Scene      *scene.Scene
	Controller *zoom.Controller
}

// NewView lays out tree and renders it at the root. Extra zoom options
// (an animator, a duration) are applied after the ones derived from opts.
func NewView(tree *hierarchy.Node, opts Options, extra ...zoom.Option) (*View, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	var colorOpts []color.Option
	if len(opts.Palette) > 0 {
		colorOpts = append(colorOpts, color.WithPalette(opts.Palette))
	}
	layout.Apply(tree, layout.Options{})

	sc := scene.New(opts.Width, opts.Height)
	zopts := append([]zoom.Option{
		zoom.WithColors(color.New(tree, colorOpts...)),
		zoom.WithLogger(opts.Logger),
	}, extra...)
	return &View{Scene: sc, Controller: zoom.New(tree, sc, zopts...)}, nil
}

// Focus zooms the view to the node with the given ID, one level per
// transition. An empty ID or the current root is a no-op.
func (v *View) Focus(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	n, err := v.Controller.Tree().Find(id)
	if err != nil {
		return err
	}
	// Back out until n is the root or below it.
	for root := v.Controller.State().Root; n != root && !n.IsDescendantOf(root); root = v.Controller.State().Root {
		if _, err := v.Controller.ZoomOut(ctx); err != nil {
			return err
		}
	}
	// Descend along the path from the root down to n.
	for root := v.Controller.State().Root; root != n; root = v.Controller.State().Root {
		if _, err := v.Controller.ZoomIn(ctx, childToward(root, n)); err != nil {
			return err
		}
	}
	return nil
}

// childToward returns the child of root on the path to n, which must be a
// strict descendant of root.
func childToward(root, n *hierarchy.Node) *hierarchy.Node {
	for n.Parent != root {
		n = n.Parent
	}
	return n
}

// Path returns the display path of the settled root.
func (v *View) Path() string {
	return v.Controller.State().Root.Path()
}

// Layout builds a view of tree settled on opts.Focus without animation and
// returns its snapshot.
func Layout(ctx context.Context, tree *hierarchy.Node, opts Options) (*View, scene.Snapshot, error) {
	v, err := NewView(tree, opts, zoom.WithAnimator(scene.Immediate{}))
	if err != nil {
		return nil, scene.Snapshot{}, err
	}
	if err := v.Focus(ctx, opts.Focus); err != nil {
		return nil, scene.Snapshot{}, err
	}
	opts.Logger.Debug("settled view", "root", v.Controller.State().Root.ID, "layers", len(v.Scene.LayerIDs()))
	return v, v.Scene.Snapshot(), nil
}
