// Package cache stores fetched datasets and rendered artifacts between runs.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: zstd-compressed entries under ~/.cache/zoomtree
//   - [RedisCache]: shared cache for `zoomtree serve` deployments
//
// Keys come from a [Keyer] so every backend agrees on their shape:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.RenderKey(cache.Hash(data), cache.RenderKeyOpts{Format: "svg", Width: 1400})
//	if b, ok, _ := c.Get(ctx, key); ok {
//	    return b
//	}
//
// Wrap a backend with [Observed] to report hits, misses and writes to the
// registered observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes.
const (
	// TTLDataset bounds how long a fetched remote dataset is reused.
	TTLDataset = time.Hour

	// TTLRender bounds how long a rendered artifact is reused. Artifacts are
	// keyed by the dataset hash, so a changed dataset never hits a stale one.
	TTLRender = 7 * 24 * time.Hour
)

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DatasetKey names the raw bytes fetched from a remote source.
	DatasetKey(source string, opts DatasetKeyOpts) string

	// RenderKey names one rendered artifact of a dataset.
	RenderKey(datasetHash string, opts RenderKeyOpts) string
}

// DatasetKeyOpts are the fetch options that change what a source returns.
type DatasetKeyOpts struct {
	Kind string `json:"kind,omitempty"` // "http" or "mongo"
}

// RenderKeyOpts are the options that change a rendered artifact.
type RenderKeyOpts struct {
	VizType  string   `json:"viz_type,omitempty"`
	Format   string   `json:"format"`
	DataPath string   `json:"data_path,omitempty"`
	Focus    string   `json:"focus,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Palette  []string `json:"palette,omitempty"`
	Title    string   `json:"title,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	MaxDepth int      `json:"max_depth,omitempty"`
}

// DefaultKeyer produces "dataset:<hash>" and "render:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey implements Keyer.
func (DefaultKeyer) DatasetKey(source string, opts DatasetKeyOpts) string {
	return hashKey("dataset", source, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(datasetHash string, opts RenderKeyOpts) string {
	return hashKey("render", datasetHash, opts)
}
