package layout

import (
	"math"
	"testing"
)

func TestRectDimensions(t *testing.T) {
	tests := []struct {
		name          string
		rect          Rect
		width, height float64
		cx, cy        float64
	}{
		{"unit", Unit, 1, 1, 0.5, 0.5},
		{"offset", Rect{X0: 10, Y0: 20, X1: 50, Y1: 80}, 40, 60, 30, 50},
		{"degenerate", Rect{X0: 3, Y0: 3, X1: 3, Y1: 3}, 0, 0, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Width(); got != tt.width {
				t.Errorf("Width() = %v, want %v", got, tt.width)
			}
			if got := tt.rect.Height(); got != tt.height {
				t.Errorf("Height() = %v, want %v", got, tt.height)
			}
			if got := tt.rect.CenterX(); got != tt.cx {
				t.Errorf("CenterX() = %v, want %v", got, tt.cx)
			}
			if got := tt.rect.CenterY(); got != tt.cy {
				t.Errorf("CenterY() = %v, want %v", got, tt.cy)
			}
		})
	}
}

func TestRectAspect(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want float64
	}{
		{"square", Unit, 1},
		{"wide", Rect{X1: 4, Y1: 1}, 4},
		{"tall", Rect{X1: 1, Y1: 4}, 4},
		{"degenerate", Rect{X1: 1}, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Aspect(); got != tt.want {
				t.Errorf("Aspect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectOverlap(t *testing.T) {
	a := Rect{X1: 2, Y1: 2}
	tests := []struct {
		name string
		b    Rect
		want float64
	}{
		{"disjoint", Rect{X0: 3, Y0: 3, X1: 4, Y1: 4}, 0},
		{"touching edge", Rect{X0: 2, Y0: 0, X1: 4, Y1: 2}, 0},
		{"partial", Rect{X0: 1, Y0: 1, X1: 3, Y1: 3}, 1},
		{"inside", Rect{X0: 0.5, Y0: 0.5, X1: 1.5, Y1: 1.5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlap(tt.b); got != tt.want {
				t.Errorf("Overlap() = %v, want %v", got, tt.want)
			}
		})
	}
}
