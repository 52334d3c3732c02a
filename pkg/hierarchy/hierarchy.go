package hierarchy

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/zoomtree/pkg/errors"
)

// RawNode is the nested record a dataset decodes into.
//
// Leaves carry Count. Internal nodes carry Children and may carry Count or
// TotalCount for display, but their weight is always derived from the leaves.
type RawNode struct {
	Name       string    `json:"name" yaml:"name" toml:"name" bson:"name"`
	Count      *float64  `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty" bson:"count,omitempty"`
	TotalCount *float64  `json:"total_count,omitempty" yaml:"total_count,omitempty" toml:"total_count,omitempty" bson:"total_count,omitempty"`
	Children   []RawNode `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" bson:"children,omitempty"`
}

// Node is a built tree node with aggregate weight, depth and layout bounds.
//
// Parent is a non-owning back reference (nil at the root). Children are
// owned and sorted by descending Weight.
type Node struct {
	ID         string
	Name       string
	Count      *float64 // raw count as decoded, display only for internal nodes
	TotalCount *float64 // raw total_count as decoded, display only
	Weight     float64
	Depth      int

	Parent   *Node
	Children []*Node

	// Layout-space bounds assigned by the treemap layout.
	X0, Y0, X1, Y1 float64
}

// RootID is the ID Build assigns to the tree root.
const RootID = "0"

// Build converts raw into a weighted tree. It never fails: unusable counts
// weigh zero and a zero-weight tree is valid.
func Build(raw RawNode) *Node {
	root := build(raw, nil, 0)
	assignIDs(root, RootID)
	return root
}

func build(raw RawNode, parent *Node, depth int) *Node {
	n := &Node{
		Name:       raw.Name,
		Count:      raw.Count,
		TotalCount: raw.TotalCount,
		Depth:      depth,
		Parent:     parent,
	}
	if len(raw.Children) == 0 {
		n.Weight = leafWeight(raw.Count)
		return n
	}

	n.Children = make([]*Node, 0, len(raw.Children))
	for _, rc := range raw.Children {
		child := build(rc, n, depth+1)
		n.Children = append(n.Children, child)
		n.Weight += child.Weight
	}
	slices.SortStableFunc(n.Children, func(a, b *Node) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return n
}

func leafWeight(count *float64) float64 {
	if count == nil {
		return 0
	}
	v := *count
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func assignIDs(n *Node, id string) {
	n.ID = id
	for i, c := range n.Children {
		assignIDs(c, id+"."+strconv.Itoa(i))
	}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// Root walks the parent chain to the tree root.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Ancestors returns the node followed by each of its ancestors, ending at the root.
func (n *Node) Ancestors() []*Node {
	out := make([]*Node, 0, n.Depth+1)
	for cur := n; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// TopLevel returns the depth-1 ancestor on the path from the root to n,
// which is n itself for top-level categories. It returns nil for the root.
func (n *Node) TopLevel() *Node {
	if n.Parent == nil {
		return nil
	}
	cur := n
	for cur.Parent.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// IsDescendantOf reports whether n lies strictly below a.
func (n *Node) IsDescendantOf(a *Node) bool {
	if a == nil {
		return false
	}
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur == a {
			return true
		}
	}
	return false
}

// Each calls fn for n and every descendant in pre-order.
func (n *Node) Each(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Each(fn)
	}
}

// Leaves returns the leaves below n in pre-order, or n itself if it is a leaf.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Each(func(c *Node) {
		if c.IsLeaf() {
			out = append(out, c)
		}
	})
	return out
}

// Find resolves an ID anywhere in n's tree.
//
// Returns an [errors.ErrCodeInvalidInput] error for malformed IDs and an
// [errors.ErrCodeNotFound] error when no node has the ID.
func (n *Node) Find(id string) (*Node, error) {
	if err := errors.ValidateNodeID(id); err != nil {
		return nil, err
	}
	parts := strings.Split(id, ".")
	if parts[0] != RootID {
		return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	cur := n.Root()
	for _, p := range parts[1:] {
		i, err := strconv.Atoi(p)
		if err != nil || i >= len(cur.Children) {
			return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
		}
		cur = cur.Children[i]
	}
	return cur, nil
}

// CountLabel returns the display value shown under a tile's name: the raw
// count, or total_count when count is missing or zero. Values use thousands
// separators. It returns "" when neither is set.
func (n *Node) CountLabel() string {
	switch {
	case n.Count != nil && *n.Count != 0:
		return humanize.Commaf(*n.Count)
	case n.TotalCount != nil:
		return humanize.Commaf(*n.TotalCount)
	case n.Count != nil:
		return humanize.Commaf(*n.Count)
	}
	return ""
}

// Path returns the names from the root down to n joined by " / ".
func (n *Node) Path() string {
	anc := n.Ancestors()
	names := make([]string, len(anc))
	for i, a := range anc {
		names[len(anc)-1-i] = a.Name
	}
	return strings.Join(names, " / ")
}

// Stats summarizes a tree.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	Weight   float64
}

// Stats walks the subtree rooted at n. Depths are relative to the tree root.
func (n *Node) Stats() Stats {
	s := Stats{Weight: n.Weight}
	n.Each(func(c *Node) {
		s.Nodes++
		if c.IsLeaf() {
			s.Leaves++
		}
		s.MaxDepth = max(s.MaxDepth, c.Depth)
	})
	return s
}
