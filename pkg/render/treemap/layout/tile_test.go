package layout

import (
	"testing"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
)

func f(v float64) *float64 { return &v }

func leaf(name string, count float64) hierarchy.RawNode {
	return hierarchy.RawNode{Name: name, Count: f(count)}
}

func TestApplyThirtySeventy(t *testing.T) {
	root := hierarchy.Build(hierarchy.RawNode{
		Name:     "root",
		Children: []hierarchy.RawNode{leaf("A", 30), leaf("B", 70)},
	})
	Apply(root, Options{})

	if !rectsEqual(Bounds(root), Unit) {
		t.Fatalf("root bounds = %+v, want unit square", Bounds(root))
	}

	b, a := root.Children[0], root.Children[1]
	if b.Name != "B" || a.Name != "A" {
		t.Fatalf("children = %s, %s", b.Name, a.Name)
	}
	if !rectsEqual(Bounds(b), Rect{X1: 0.7, Y1: 1}) {
		t.Errorf("B = %+v", Bounds(b))
	}
	if !rectsEqual(Bounds(a), Rect{X0: 0.7, X1: 1, Y1: 1}) {
		t.Errorf("A = %+v", Bounds(a))
	}

	vp := NewViewport(1000, 500)
	pb, pa := vp.Project(Bounds(b)), vp.Project(Bounds(a))
	if pb.Area() != 350000 || pa.Area() != 150000 {
		t.Errorf("projected areas = %v, %v; want 350000, 150000", pb.Area(), pa.Area())
	}
}

func TestTileLeafIsNoop(t *testing.T) {
	n := hierarchy.Build(leaf("solo", 3))
	n.X0, n.Y0, n.X1, n.Y1 = 1, 2, 3, 4

	Tile(n, Rect{X1: 10, Y1: 10}, Reference)

	if !rectsEqual(Bounds(n), Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}) {
		t.Errorf("leaf bounds changed to %+v", Bounds(n))
	}
}

func TestTileSingleChild(t *testing.T) {
	n := hierarchy.Build(hierarchy.RawNode{Name: "p", Children: []hierarchy.RawNode{leaf("only", 0)}})
	target := Rect{X0: 0.2, Y0: 0.3, X1: 0.6, Y1: 0.9}

	Tile(n, target, Reference)

	if got := Bounds(n.Children[0]); got != target {
		t.Errorf("child = %+v, want %+v", got, target)
	}
}

func TestTileUsesReferenceAxis(t *testing.T) {
	n := hierarchy.Build(hierarchy.RawNode{
		Name:     "p",
		Children: []hierarchy.RawNode{leaf("a", 1), leaf("b", 1)},
	})

	// The target is tall, but the wide reference space decides the cut.
	Tile(n, Rect{X1: 1, Y1: 2}, Reference)

	if got := Bounds(n.Children[0]); !rectsEqual(got, Rect{X1: 0.5, Y1: 2}) {
		t.Errorf("a = %+v", got)
	}
	if got := Bounds(n.Children[1]); !rectsEqual(got, Rect{X0: 0.5, X1: 1, Y1: 2}) {
		t.Errorf("b = %+v", got)
	}
}

func TestApplyContainment(t *testing.T) {
	raw := hierarchy.RawNode{Name: "root"}
	for i := range 6 {
		cat := hierarchy.RawNode{Name: "cat"}
		for j := range i + 2 {
			cat.Children = append(cat.Children, leaf("leaf", float64((i+1)*(j+3))))
		}
		raw.Children = append(raw.Children, cat)
	}
	root := hierarchy.Build(raw)
	Apply(root, Options{Bounds: Rect{X1: 1400, Y1: 700}})

	root.Each(func(n *hierarchy.Node) {
		parent := Bounds(n)
		for i, c := range n.Children {
			cb := Bounds(c)
			if !parent.Contains(cb, 1e-9) {
				t.Errorf("%s escapes parent %s", c.ID, n.ID)
			}
			want := parent.Area() * c.Weight / n.Weight
			if diff := cb.Area() - want; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("%s area = %v, want %v", c.ID, cb.Area(), want)
			}
			for _, s := range n.Children[i+1:] {
				if ov := cb.Overlap(Bounds(s)); ov > 1e-9 {
					t.Errorf("%s overlaps %s by %v", c.ID, s.ID, ov)
				}
			}
		}
	})
}

func TestApplyZeroWeight(t *testing.T) {
	root := hierarchy.Build(hierarchy.RawNode{
		Name:     "root",
		Children: []hierarchy.RawNode{leaf("a", 0), leaf("b", 0)},
	})
	Apply(root, Options{})

	for _, c := range root.Children {
		if a := Bounds(c).Area(); a != 0 {
			t.Errorf("%s area = %v, want 0", c.Name, a)
		}
	}
}
