package sink

import (
	"encoding/json"

	"github.com/matzehuels/zoomtree/pkg/render/treemap/color"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	categories []color.Category
	root       string
	path       string
}

// WithJSONCategories includes the category legend.
func WithJSONCategories(cats []color.Category) JSONOption {
	return func(r *jsonRenderer) { r.categories = cats }
}

// WithJSONFocus records the focal root's ID and display path.
func WithJSONFocus(id, path string) JSONOption {
	return func(r *jsonRenderer) { r.root = id; r.path = path }
}

type jsonOutput struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	HeaderSpace float64          `json:"header_space"`
	Root        string           `json:"root,omitempty"`
	Path        string           `json:"path,omitempty"`
	BackVisible bool             `json:"back_visible"`
	Categories  []color.Category `json:"categories,omitempty"`
	Layers      []scene.Layer    `json:"layers"`
}

// RenderJSON serializes the snapshot with indentation.
func RenderJSON(snap scene.Snapshot, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	layers := snap.Layers
	if layers == nil {
		layers = []scene.Layer{}
	}
	out := jsonOutput{
		Width:       snap.Width,
		Height:      snap.Height,
		HeaderSpace: HeaderSpace,
		Root:        r.root,
		Path:        r.path,
		BackVisible: snap.BackVisible,
		Categories:  r.categories,
		Layers:      layers,
	}
	return json.MarshalIndent(out, "", "  ")
}
