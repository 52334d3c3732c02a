// Package nodelink renders a weighted hierarchy as a node-link tree.
//
// # Overview
//
// This package produces top-down tree diagrams using Graphviz, where nodes
// appear as boxes connected by arrows from parent to child. It complements
// the treemap for cases where the nesting itself is what the reader needs
// to see.
//
// # Usage
//
// Convert a subtree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: labels include weight, depth and the display count
//   - MaxDepth: stop drawing below this many levels
//   - Colors: fill nodes with the treemap's category colors
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
