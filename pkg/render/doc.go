// Package render provides visualization rendering for weighted hierarchies.
//
// # Overview
//
// This package contains the rendering pipeline that turns a built
// hierarchy into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Zoomable treemaps (in [treemap] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The treemap PDF sink and
// the node-link renderer use them.
//
//	svg := sink.RenderSVG(sc.Snapshot())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing, both return an error with code
// UNSUPPORTED. [Available] checks up front.
//
// # Treemap Visualization
//
// The [treemap] subpackage renders a hierarchy as nested rectangles whose
// areas follow node weights, with click-to-zoom navigation:
//   - [treemap/layout]: Binary tiling and viewport scales
//   - [treemap/color]: Category colors with depth attenuation
//   - [treemap/scene]: Retained scene graph and animators
//   - [treemap/zoom]: Zoom state machine
//   - [treemap/sink]: SVG, PNG, PDF and JSON export
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws the same hierarchy as a Graphviz tree,
// which is useful for inspecting structure and weights of small datasets.
//
// [treemap]: github.com/matzehuels/zoomtree/pkg/render/treemap
// [treemap/layout]: github.com/matzehuels/zoomtree/pkg/render/treemap/layout
// [treemap/color]: github.com/matzehuels/zoomtree/pkg/render/treemap/color
// [treemap/scene]: github.com/matzehuels/zoomtree/pkg/render/treemap/scene
// [treemap/zoom]: github.com/matzehuels/zoomtree/pkg/render/treemap/zoom
// [treemap/sink]: github.com/matzehuels/zoomtree/pkg/render/treemap/sink
// [nodelink]: github.com/matzehuels/zoomtree/pkg/render/nodelink
package render
