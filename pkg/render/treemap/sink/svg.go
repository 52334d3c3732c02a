package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

const treemapCSS = `
    .node { stroke: #ffffff; stroke-width: 1; }
    .node-label { fill: #1f1f1f; pointer-events: none; }
    .clickable-node { cursor: pointer; }
    .clickable-node:hover .node { stroke: #1f1f1f; }
    .back { cursor: pointer; }`

const (
	backWidth = 70.0
	backFill  = "#e0e0e0"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	font   string
	title  string
	styled bool
}

// WithFont sets the CSS font shorthand of the document (default "10px sans-serif").
func WithFont(font string) SVGOption { return func(r *svgRenderer) { r.font = font } }

// WithTitle adds a <title> element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithoutStyles omits the embedded stylesheet.
func WithoutStyles() SVGOption { return func(r *svgRenderer) { r.styled = false } }

// RenderSVG renders the snapshot as a standalone SVG document.
func RenderSVG(snap scene.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{font: "10px sans-serif", styled: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := snap.Width, snap.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 %d %.0f %.0f" width="%.0f" height="%.0f" style="max-width: 100%%; height: auto; font: %s;">`+"\n",
		-HeaderSpace, w, h+HeaderSpace, w, h+HeaderSpace, escape(r.font))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	if r.styled {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", treemapCSS)
	}

	for _, l := range snap.Layers {
		renderLayer(&buf, l)
	}
	if snap.BackVisible {
		renderBack(&buf, w)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLayer(buf *bytes.Buffer, l scene.Layer) {
	fmt.Fprintf(buf, `  <g class="layer" data-layer="%d" data-root="%s" opacity="%.3f"`, l.ID, escape(l.RootID), l.Opacity)
	if !l.Interactive {
		buf.WriteString(` pointer-events="none"`)
	}
	buf.WriteString(">\n")
	for _, e := range l.Elements {
		renderElement(buf, e)
	}
	buf.WriteString("  </g>\n")
}

func renderElement(buf *bytes.Buffer, e scene.Element) {
	a := e.Attrs
	fmt.Fprintf(buf, `    <g transform="translate(%.2f,%.2f)" data-id="%s"`, a.X, a.Y, escape(e.NodeID))
	if e.Clickable {
		buf.WriteString(` class="clickable-node"`)
	}
	buf.WriteString(">\n")
	fmt.Fprintf(buf, `      <rect class="node" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		max(a.W, 0), max(a.H, 0), escape(e.Fill))
	for _, line := range labelLines(e) {
		fmt.Fprintf(buf, `      <text class="node-label" x="%.0f" y="%.0f">%s</text>`+"\n",
			line.x, line.y, escape(line.text))
	}
	buf.WriteString("    </g>\n")
}

func renderBack(buf *bytes.Buffer, width float64) {
	fmt.Fprintf(buf, `  <g id="back" class="back" transform="translate(%.2f,%d)">`+"\n", width-backWidth, -HeaderSpace)
	fmt.Fprintf(buf, `    <rect width="%.0f" height="30" fill="%s"/>`+"\n", backWidth, backFill)
	fmt.Fprintf(buf, `    <text x="%.0f" y="%.0f">Back</text>`+"\n", labelX/2, headerTextY)
	buf.WriteString("  </g>\n")
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
