// Package pipeline runs the load → layout → render pipeline shared by the
// CLI, the HTTP server and the terminal explorer.
//
// # Stages
//
//  1. Load: fetch a dataset ([source]), decode it ([io]) and build the
//     weighted tree ([hierarchy])
//  2. Layout: tile the tree and settle a treemap [View] on the focal root
//  3. Render: write the view (or the tree, for nodelink) in each format
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "data/housing.json",
//	    Focus:   "0.1",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Rendered artifacts are cached by the content hash of the dataset and the
// options that affect them, so an unchanged dataset rendered with the same
// options never runs the layout twice.
//
// [source]: github.com/matzehuels/zoomtree/pkg/source
// [io]: github.com/matzehuels/zoomtree/pkg/io
// [hierarchy]: github.com/matzehuels/zoomtree/pkg/hierarchy
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zoomtree/pkg/cache"
	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	zio "github.com/matzehuels/zoomtree/pkg/io"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/color"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, server and explorer
// =============================================================================

const (
	// DefaultWidth and DefaultHeight match the layout reference space, so
	// tiles keep the aspect ratios the tiling chose.
	DefaultWidth  = 1400.0
	DefaultHeight = 700.0

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultMaxDepth limits nodelink output; 0 means unlimited.
	DefaultMaxDepth = 0
)

// Visualization types.
const (
	VizTypeTreemap  = "treemap"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeTreemap

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeTreemap:  true,
	VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// It round-trips through JSON for server requests.
type Options struct {
	// Load options
	Source   string `json:"source"`
	Format   string `json:"format,omitempty"`    // dataset format override: json, yaml, toml
	DataPath string `json:"data_path,omitempty"` // JSONPath of the hierarchy, default $.data
	Refresh  bool   `json:"refresh,omitempty"`   // bypass cached datasets and artifacts

	// Layout options
	VizType string   `json:"viz_type,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Focus   string   `json:"focus,omitempty"` // node ID to zoom to before rendering
	Palette []string `json:"palette,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Title    string   `json:"title,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`  // nodelink: show weight and depth
	MaxDepth int      `json:"max_depth,omitempty"` // nodelink: depth cutoff

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the built hierarchy, laid out when a view was computed.
	Tree *hierarchy.Node

	// DatasetHash is the content hash of the raw dataset bytes.
	DatasetHash string

	// Snapshot is the settled treemap view. Empty on a render cache hit
	// and for nodelink runs.
	Snapshot scene.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	hierarchy.Stats
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // every requested artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid viz_type: %q (must be one of: treemap, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options for a full run and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the load options.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if o.Format != "" {
		f, err := zio.ParseFormat(o.Format)
		if err != nil {
			return err
		}
		o.Format = string(f)
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.Focus != "" {
		if err := errors.ValidateNodeID(o.Focus); err != nil {
			return err
		}
	}
	if len(o.Palette) > 0 {
		return color.ValidatePalette(o.Palette)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsTreemap returns true if this is a treemap visualization.
func (o *Options) IsTreemap() bool {
	return o.VizType == "" || o.VizType == VizTypeTreemap
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// RenderKeyOpts returns cache key options for one artifact.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{
		VizType:  o.VizType,
		Format:   format,
		DataPath: o.DataPath,
		Focus:    o.Focus,
		Width:    o.Width,
		Height:   o.Height,
		Palette:  o.Palette,
		Title:    o.Title,
		Detailed: o.Detailed,
		MaxDepth: o.MaxDepth,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
