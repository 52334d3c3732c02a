// Package treemap provides the zoomable treemap visualization engine.
//
// # Overview
//
// A treemap draws a weighted hierarchy as nested rectangles whose areas
// follow the node weights. The zoomable variant shows one focal root at a
// time: its children fill the viewport, and clicking a tile animates the
// view into that tile while a header strip leads back to the parent.
//
// The engine is split into stages that can each be used and tested alone:
//
//  1. Layout ([layout]): binary tiling of every node's children and the
//     viewport scales that map layout space onto pixels.
//  2. Color ([color]): category hues attenuated toward a neutral shade by depth.
//  3. Scene ([scene]): a retained-mode scene graph of layers, tiles and labels
//     with attribute tweens and click listeners.
//  4. Zoom ([zoom]): the state machine that drives zoom in and zoom out
//     transitions against a scene.
//  5. Sink ([sink]): export of a scene snapshot to SVG, PNG, PDF or JSON.
//
// # Rendering Pipeline
//
//	root := hierarchy.Build(raw)
//	layout.Apply(root, layout.Options{})
//
//	sc := scene.New(1000, 500)
//	ctl := zoom.New(root, sc, zoom.WithAnimator(scene.Immediate{}))
//	_ = ctl.ZoomIn(ctx, root.Children[0])
//
//	svg := sink.RenderSVG(sc.Snapshot())
//
// [layout]: github.com/matzehuels/zoomtree/pkg/render/treemap/layout
// [color]: github.com/matzehuels/zoomtree/pkg/render/treemap/color
// [scene]: github.com/matzehuels/zoomtree/pkg/render/treemap/scene
// [zoom]: github.com/matzehuels/zoomtree/pkg/render/treemap/zoom
// [sink]: github.com/matzehuels/zoomtree/pkg/render/treemap/sink
package treemap
