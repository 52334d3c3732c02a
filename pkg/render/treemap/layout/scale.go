package layout

import (
	"math"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
)

// Scale maps a continuous domain linearly onto a range.
type Scale struct {
	D0, D1 float64 // domain
	R0, R1 float64 // range
	Round  bool    // round outputs to the nearest integer
}

// NewScale returns a scale from [0, 1] onto [r0, r1].
func NewScale(r0, r1 float64, round bool) Scale {
	return Scale{D0: 0, D1: 1, R0: r0, R1: r1, Round: round}
}

// Map projects v from the domain onto the range. Values outside the domain
// extrapolate. A zero-width domain maps everything to the range midpoint.
func (s Scale) Map(v float64) float64 {
	var t float64
	if d := s.D1 - s.D0; d != 0 {
		t = (v - s.D0) / d
	} else {
		t = 0.5
	}
	out := s.R0 + t*(s.R1-s.R0)
	if s.Round {
		out = math.Floor(out + 0.5)
	}
	return out
}

// WithDomain returns a copy of s with its domain replaced.
func (s Scale) WithDomain(d0, d1 float64) Scale {
	s.D0, s.D1 = d0, d1
	return s
}

// Viewport projects layout space onto a pixel surface of Width x Height.
type Viewport struct {
	Width, Height float64
	X, Y          Scale
}

// NewViewport returns a viewport whose domain is the unit square.
// Outputs are rounded to whole pixels.
func NewViewport(width, height float64) Viewport {
	return Viewport{
		Width:  width,
		Height: height,
		X:      NewScale(0, width, true),
		Y:      NewScale(0, height, true),
	}
}

// Focus returns a copy of v whose domain is the bounds of n, so that n
// fills the viewport.
func (v Viewport) Focus(n *hierarchy.Node) Viewport {
	v.X = v.X.WithDomain(n.X0, n.X1)
	v.Y = v.Y.WithDomain(n.Y0, n.Y1)
	return v
}

// Project maps a layout-space rectangle to pixels.
func (v Viewport) Project(r Rect) Rect {
	return Rect{X0: v.X.Map(r.X0), Y0: v.Y.Map(r.Y0), X1: v.X.Map(r.X1), Y1: v.Y.Map(r.Y1)}
}
