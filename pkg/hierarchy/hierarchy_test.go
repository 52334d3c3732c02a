package hierarchy

import (
	"math"
	"testing"

	"github.com/matzehuels/zoomtree/pkg/errors"
)

func f(v float64) *float64 { return &v }

func sample() RawNode {
	return RawNode{
		Name: "root",
		Children: []RawNode{
			{Name: "Tenure", Children: []RawNode{
				{Name: "Owned", Count: f(10)},
				{Name: "Rented", Count: f(40)},
				{Name: "Social", Count: f(10)},
			}},
			{Name: "Age", Count: f(999), Children: []RawNode{
				{Name: "Young", Count: f(5)},
				{Name: "Old", Count: f(15)},
			}},
			{Name: "Region", Children: []RawNode{
				{Name: "North", Children: []RawNode{
					{Name: "Urban", Count: f(50)},
					{Name: "Rural", Count: f(20)},
				}},
			}},
		},
	}
}

func TestBuildWeightConservation(t *testing.T) {
	root := Build(sample())

	root.Each(func(n *Node) {
		if n.IsLeaf() {
			return
		}
		var sum float64
		for _, c := range n.Children {
			sum += c.Weight
		}
		if n.Weight != sum {
			t.Errorf("%s: weight = %v, sum of children = %v", n.Name, n.Weight, sum)
		}
	})

	if root.Weight != 150 {
		t.Errorf("root weight = %v, want 150", root.Weight)
	}
}

func TestBuildIgnoresInternalCount(t *testing.T) {
	root := Build(sample())
	age, err := root.Find("0.2")
	if err != nil {
		t.Fatal(err)
	}
	if age.Name != "Age" {
		t.Fatalf("0.2 = %s, want Age", age.Name)
	}
	if age.Weight != 20 {
		t.Errorf("Age weight = %v, want 20", age.Weight)
	}
	if age.Count == nil || *age.Count != 999 {
		t.Error("raw count should be kept for display")
	}
}

func TestBuildSortStability(t *testing.T) {
	root := Build(sample())

	root.Each(func(n *Node) {
		for i := 1; i < len(n.Children); i++ {
			if n.Children[i-1].Weight < n.Children[i].Weight {
				t.Errorf("%s: children not sorted descending at %d", n.Name, i)
			}
		}
	})

	tenure := root.Children[1]
	var got []string
	for _, c := range tenure.Children {
		got = append(got, c.Name)
	}
	want := []string{"Rented", "Owned", "Social"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tenure children = %v, want %v", got, want)
		}
	}
}

func TestBuildDepthAndParent(t *testing.T) {
	root := Build(sample())
	if root.Depth != 0 || root.Parent != nil {
		t.Fatalf("root depth = %d, parent = %v", root.Depth, root.Parent)
	}
	root.Each(func(n *Node) {
		for _, c := range n.Children {
			if c.Depth != n.Depth+1 {
				t.Errorf("%s: depth %d under parent depth %d", c.Name, c.Depth, n.Depth)
			}
			if c.Parent != n {
				t.Errorf("%s: wrong parent", c.Name)
			}
		}
	})
}

func TestLeafWeight(t *testing.T) {
	tests := []struct {
		name  string
		count *float64
		want  float64
	}{
		{"positive", f(12.5), 12.5},
		{"zero", f(0), 0},
		{"missing", nil, 0},
		{"negative", f(-3), 0},
		{"nan", f(math.NaN()), 0},
		{"inf", f(math.Inf(1)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Build(RawNode{Name: "leaf", Count: tt.count})
			if n.Weight != tt.want {
				t.Errorf("weight = %v, want %v", n.Weight, tt.want)
			}
		})
	}
}

func TestBuildZeroWeight(t *testing.T) {
	root := Build(RawNode{Name: "root", Children: []RawNode{{Name: "a"}, {Name: "b"}}})
	if root.Weight != 0 {
		t.Errorf("weight = %v, want 0", root.Weight)
	}
	if root.Children[0].Name != "a" {
		t.Error("zero-weight siblings should keep input order")
	}
}

func TestIDsAndFind(t *testing.T) {
	root := Build(sample())

	root.Each(func(n *Node) {
		got, err := root.Find(n.ID)
		if err != nil {
			t.Fatalf("Find(%q): %v", n.ID, err)
		}
		if got != n {
			t.Errorf("Find(%q) = %s, want %s", n.ID, got.Name, n.Name)
		}
	})

	urban, err := root.Children[1].Find("0.0.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if urban.Name != "Urban" {
		t.Errorf("0.0.0.0 = %s, want Urban", urban.Name)
	}

	tests := []struct {
		id   string
		code errors.Code
	}{
		{"", errors.ErrCodeInvalidInput},
		{"0..1", errors.ErrCodeInvalidInput},
		{"1", errors.ErrCodeNotFound},
		{"0.9", errors.ErrCodeNotFound},
		{"0.0.0.0.0", errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		_, err := root.Find(tt.id)
		if !errors.Is(err, tt.code) {
			t.Errorf("Find(%q) error = %v, want code %s", tt.id, err, tt.code)
		}
	}
}

func TestAncestry(t *testing.T) {
	root := Build(sample())
	rural, _ := root.Find("0.0.0.1")

	anc := rural.Ancestors()
	if len(anc) != 4 || anc[0] != rural || anc[3] != root {
		t.Fatalf("Ancestors() = %d nodes", len(anc))
	}
	if top := rural.TopLevel(); top.Name != "Region" {
		t.Errorf("TopLevel() = %s, want Region", top.Name)
	}
	if top := root.Children[0].TopLevel(); top != root.Children[0] {
		t.Error("TopLevel() of a category should be itself")
	}
	if root.TopLevel() != nil {
		t.Error("TopLevel() of root should be nil")
	}
	if !rural.IsDescendantOf(root) || rural.IsDescendantOf(rural) || root.IsDescendantOf(rural) {
		t.Error("IsDescendantOf() mismatch")
	}
	if got := rural.Path(); got != "root / Region / North / Rural" {
		t.Errorf("Path() = %q", got)
	}
	if rural.Root() != root {
		t.Error("Root() mismatch")
	}
}

func TestCountLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  RawNode
		want string
	}{
		{"count", RawNode{Count: f(1234567)}, "1,234,567"},
		{"total count", RawNode{TotalCount: f(4200), Children: []RawNode{{Count: f(1)}}}, "4,200"},
		{"zero count falls back", RawNode{Count: f(0), TotalCount: f(7)}, "7"},
		{"zero count", RawNode{Count: f(0)}, "0"},
		{"none", RawNode{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build(tt.raw).CountLabel(); got != tt.want {
				t.Errorf("CountLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	s := Build(sample()).Stats()
	if s.Nodes != 12 || s.Leaves != 7 || s.MaxDepth != 3 || s.Weight != 150 {
		t.Errorf("Stats() = %+v", s)
	}
	if got := len(Build(sample()).Leaves()); got != 7 {
		t.Errorf("Leaves() = %d, want 7", got)
	}
}
