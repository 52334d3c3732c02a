// Package color assigns treemap fill colors.
//
// Each top-level category (a child of the tree root) gets a base color from
// a qualitative palette, in the order the categories appear. A node's color
// is its category's base color blended toward a light neutral shade in
// proportion to its depth, so nested detail fades while keeping its hue.
// The tree root itself is drawn white.
package color

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
)

// Tableau10 is the default category palette.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

const (
	// DefaultNeutral is the shade deep nodes fade toward.
	DefaultNeutral = "#f7f7f7"
	// DefaultRoot is the fill of the tree root.
	DefaultRoot = "#ffffff"
	// DefaultAttenuationDepth is the depth at which nodes reach the neutral shade.
	DefaultAttenuationDepth = 7
)

// Category is one entry of the category color map.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Resolver maps nodes to hex colors. It is immutable after New and safe
// for concurrent use.
type Resolver struct {
	palette    []colorful.Color
	neutral    colorful.Color
	root       string
	depth      int
	categories map[string]colorful.Color
	order      []Category
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPalette replaces the category palette. Entries that are not valid hex
// colors are skipped; an empty result keeps the default palette.
func WithPalette(hexes []string) Option {
	return func(r *Resolver) {
		if p := parseAll(hexes); len(p) > 0 {
			r.palette = p
		}
	}
}

// WithNeutral sets the shade deep nodes fade toward and the fallback for
// nodes without a known category.
func WithNeutral(hex string) Option {
	return func(r *Resolver) {
		if c, err := colorful.Hex(hex); err == nil {
			r.neutral = c
		}
	}
}

// WithRootColor sets the fill of the tree root.
func WithRootColor(hex string) Option {
	return func(r *Resolver) {
		if c, err := colorful.Hex(hex); err == nil {
			r.root = c.Hex()
		}
	}
}

// WithAttenuationDepth sets the depth at which nodes become fully neutral.
// Values below 1 are ignored.
func WithAttenuationDepth(d int) Option {
	return func(r *Resolver) {
		if d >= 1 {
			r.depth = d
		}
	}
}

// New builds the category color map from root's children.
func New(root *hierarchy.Node, opts ...Option) *Resolver {
	r := &Resolver{
		palette: parseAll(Tableau10),
		neutral: mustHex(DefaultNeutral),
		root:    DefaultRoot,
		depth:   DefaultAttenuationDepth,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.categories = make(map[string]colorful.Color)
	if root == nil {
		return r
	}
	for _, c := range root.Children {
		if _, seen := r.categories[c.Name]; seen {
			continue
		}
		base := r.palette[len(r.order)%len(r.palette)]
		r.categories[c.Name] = base
		r.order = append(r.order, Category{Name: c.Name, Color: base.Hex()})
	}
	return r
}

// Resolve returns the fill color of n as a "#rrggbb" string.
//
// The tree root gets the root color. Every other node gets its top-level
// category's base color blended toward the neutral shade by
// min(depth/attenuationDepth, 1). Unknown categories get the neutral shade.
func (r *Resolver) Resolve(n *hierarchy.Node) string {
	if n.IsRoot() {
		return r.root
	}
	base, ok := r.categories[n.TopLevel().Name]
	if !ok {
		return r.neutral.Hex()
	}
	t := min(float64(n.Depth)/float64(r.depth), 1)
	return base.BlendRgb(r.neutral, t).Clamped().Hex()
}

// Neutral returns the neutral shade.
func (r *Resolver) Neutral() string { return r.neutral.Hex() }

// Categories returns the category color map in assignment order.
func (r *Resolver) Categories() []Category {
	out := make([]Category, len(r.order))
	copy(out, r.order)
	return out
}

// ValidatePalette reports the first entry that is not a hex color.
func ValidatePalette(hexes []string) error {
	for _, h := range hexes {
		if _, err := colorful.Hex(h); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid palette color %q", h)
		}
	}
	return nil
}

// Distance returns the RGB distance between two hex colors, or -1 if
// either does not parse.
func Distance(a, b string) float64 {
	ca, err := colorful.Hex(a)
	if err != nil {
		return -1
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return -1
	}
	return ca.DistanceRgb(cb)
}

func parseAll(hexes []string) []colorful.Color {
	out := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		if c, err := colorful.Hex(h); err == nil {
			out = append(out, c)
		}
	}
	return out
}

func mustHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(err)
	}
	return c
}
