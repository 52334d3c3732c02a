package sink

import (
	"bytes"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
	stroke     string
	text       string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithBackground sets the canvas color behind every layer.
func WithBackground(hex string) PNGOption { return func(r *pngRenderer) { r.background = hex } }

// RenderPNG rasterizes the snapshot. Layers are composited bottom to top
// with their group opacity.
func RenderPNG(snap scene.Snapshot, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#ffffff", stroke: "#ffffff", text: "#1f1f1f"}
	for _, opt := range opts {
		opt(&r)
	}

	w := int(snap.Width * r.scale)
	h := int((snap.Height + HeaderSpace) * r.scale)
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetHexColor(r.background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.Translate(0, HeaderSpace)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineWidth(1)

	for _, l := range snap.Layers {
		if l.Opacity <= 0 {
			continue
		}
		for _, e := range l.Elements {
			r.drawElement(dc, e, l.Opacity)
		}
	}
	if snap.BackVisible {
		r.drawBack(dc, snap.Width)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) drawElement(dc *gg.Context, e scene.Element, opacity float64) {
	a := e.Attrs
	if a.W <= 0 || a.H <= 0 {
		return
	}
	dc.DrawRectangle(a.X, a.Y, a.W, a.H)
	setColor(dc, e.Fill, opacity)
	dc.FillPreserve()
	setColor(dc, r.stroke, opacity)
	dc.Stroke()

	setColor(dc, r.text, opacity)
	for _, line := range labelLines(e) {
		dc.DrawString(line.text, a.X+line.x, a.Y+line.y)
	}
}

func (r pngRenderer) drawBack(dc *gg.Context, width float64) {
	x := width - backWidth
	dc.DrawRectangle(x, -HeaderSpace, backWidth, 30)
	setColor(dc, backFill, 1)
	dc.Fill()
	setColor(dc, r.text, 1)
	dc.DrawString("Back", x+labelX/2, -HeaderSpace+headerTextY)
}

func setColor(dc *gg.Context, hex string, alpha float64) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	r, g, b := c.Clamped().RGB255()
	dc.SetColor(color.NRGBA{R: r, G: g, B: b, A: uint8(min(max(alpha, 0), 1)*255 + 0.5)})
}
