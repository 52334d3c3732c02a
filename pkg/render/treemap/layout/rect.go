package layout

import "math"

const eps = 1e-9

// Rect is an axis-aligned rectangle with X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Size is the extent of a reference space.
type Size struct {
	W, H float64
}

// Unit is the unit square, the default layout space of a tree root.
var Unit = Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns Width times Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Y0 + r.Y1) / 2 }

// Aspect returns the ratio of the longer side to the shorter side, so 1 is
// a square. Degenerate rectangles report +Inf.
func (r Rect) Aspect() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return math.Inf(1)
	}
	return math.Max(w/h, h/w)
}

// Contains reports whether o lies inside r, allowing tol of slack on every edge.
func (r Rect) Contains(o Rect, tol float64) bool {
	return o.X0 >= r.X0-tol && o.Y0 >= r.Y0-tol && o.X1 <= r.X1+tol && o.Y1 <= r.Y1+tol
}

// Overlap returns the area shared by r and o.
func (r Rect) Overlap(o Rect) float64 {
	w := math.Min(r.X1, o.X1) - math.Max(r.X0, o.X0)
	h := math.Min(r.Y1, o.Y1) - math.Max(r.Y0, o.Y0)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
