package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/render/nodelink"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/color"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/sink"
)

// RenderView renders the current state of a treemap view in every
// requested format. The dot format describes the subtree under the
// view's root.
func RenderView(ctx context.Context, v *View, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	root := v.Controller.State().Root
	colors := v.Controller.Colors()
	snap := v.Scene.Snapshot()

	title := opts.Title
	if title == "" {
		title = root.Path()
	}
	svgOpts := []sink.SVGOption{sink.WithTitle(title)}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(snap, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(snap, sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, snap, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(snap,
				sink.WithJSONCategories(colors.Categories()),
				sink.WithJSONFocus(root.ID, root.Path()))
		case FormatDOT:
			data = []byte(nodelink.ToDOT(root, nodelinkOptions(opts, colors)))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported treemap format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderNodelink renders the subtree at opts.Focus (default the root) as a
// Graphviz node-link diagram.
func RenderNodelink(ctx context.Context, tree *hierarchy.Node, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	root := tree
	if opts.Focus != "" {
		var err error
		if root, err = tree.Find(opts.Focus); err != nil {
			return nil, err
		}
	}

	var colorOpts []color.Option
	if len(opts.Palette) > 0 {
		colorOpts = append(colorOpts, color.WithPalette(opts.Palette))
	}
	dot := nodelink.ToDOT(root, nodelinkOptions(opts, color.New(tree, colorOpts...)))

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = json.MarshalIndent(exportTree(root, opts.MaxDepth), "", "  ")
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func nodelinkOptions(opts Options, colors *color.Resolver) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, MaxDepth: opts.MaxDepth, Colors: colors}
}

// exportedNode is the JSON form of a built tree.
type exportedNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Weight   float64         `json:"weight"`
	Depth    int             `json:"depth"`
	Count    *float64        `json:"count,omitempty"`
	Children []*exportedNode `json:"children,omitempty"`
}

func exportTree(root *hierarchy.Node, maxDepth int) *exportedNode {
	var walk func(n *hierarchy.Node) *exportedNode
	walk = func(n *hierarchy.Node) *exportedNode {
		e := &exportedNode{ID: n.ID, Name: n.Name, Weight: n.Weight, Depth: n.Depth, Count: n.Count}
		if maxDepth > 0 && n.Depth-root.Depth >= maxDepth {
			return e
		}
		for _, c := range n.Children {
			e.Children = append(e.Children, walk(c))
		}
		return e
	}
	return walk(root)
}
