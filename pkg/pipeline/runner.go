package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zoomtree/pkg/cache"
	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/httputil"
	"github.com/matzehuels/zoomtree/pkg/observability"
	"github.com/matzehuels/zoomtree/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// HTTP fetches remote datasets. Nil means httputil.NewClient().
	HTTP *httputil.Client

	// Mongo locates datasets referenced as mongo:<name>.
	Mongo source.MongoConfig
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	tree, ds, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.DatasetHash = ds.Hash()
	result.Stats.Stats = tree.Stats()
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded hierarchy",
		"source", opts.Source,
		"nodes", result.Stats.Nodes,
		"leaves", result.Stats.Leaves,
		"depth", result.Stats.MaxDepth,
		"duration", result.Stats.LoadTime)

	// Every artifact cached: skip layout and render.
	if artifacts, ok := r.cachedArtifacts(ctx, result.DatasetHash, opts); ok {
		result.Artifacts = artifacts
		result.CacheInfo.RenderHit = true
		r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", true)
		return result, nil
	}

	// Stage 2: Layout
	var view *View
	if opts.IsTreemap() {
		layoutStart := time.Now()
		observability.Pipeline().OnLayoutStart(ctx, opts.VizType, result.Stats.Nodes)
		view, result.Snapshot, err = Layout(ctx, tree, opts)
		result.Stats.LayoutTime = time.Since(layoutStart)
		observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, result.Stats.LayoutTime, err)
		if err != nil {
			return nil, err
		}
		r.Logger.Info("computed layout",
			"root", view.Path(),
			"tiles", len(result.Snapshot.Layers[len(result.Snapshot.Layers)-1].Elements)-1,
			"duration", result.Stats.LayoutTime)
	}

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	var artifacts map[string][]byte
	if view != nil {
		artifacts, err = RenderView(ctx, view, opts)
	} else {
		artifacts, err = RenderNodelink(ctx, tree, opts)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	for format, data := range artifacts {
		key := r.Keyer.RenderKey(result.DatasetHash, opts.RenderKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
		}
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Load fetches and builds the hierarchy, reporting to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, opts Options) (*hierarchy.Node, source.Dataset, error) {
	r.applyLogger(&opts)
	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	start := time.Now()

	tree, ds, err := Load(ctx, opts, r.SourceOptions(opts))

	nodes := 0
	if tree != nil {
		nodes = tree.Stats().Nodes
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, nodes, time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeDataLoad, err, "load %s", opts.Source)
		}
		return nil, source.Dataset{}, err
	}
	return tree, ds, nil
}

// SourceOptions returns the loader configuration for opts. Refresh
// bypasses the dataset cache.
func (r *Runner) SourceOptions(opts Options) source.Options {
	so := source.Options{HTTP: r.HTTP, Keyer: r.Keyer, Mongo: r.Mongo, Cache: r.Cache}
	if opts.Refresh {
		so.Cache = cache.NewNullCache()
	}
	return so
}

func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(format)))
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
