package pipeline

import (
	"context"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	zio "github.com/matzehuels/zoomtree/pkg/io"
	"github.com/matzehuels/zoomtree/pkg/source"
)

// Load fetches the dataset named by opts.Source, decodes the hierarchy at
// opts.DataPath and builds the weighted tree.
func Load(ctx context.Context, opts Options, srcOpts source.Options) (*hierarchy.Node, source.Dataset, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, source.Dataset{}, err
	}
	if opts.Format != "" {
		srcOpts.Format = zio.Format(opts.Format)
	}

	src, err := source.Open(opts.Source, srcOpts)
	if err != nil {
		return nil, source.Dataset{}, err
	}
	opts.Logger.Debug("fetching dataset", "source", src)

	ds, err := src.Fetch(ctx)
	if err != nil {
		return nil, source.Dataset{}, err
	}
	raw, err := ds.Decode(opts.DataPath)
	if err != nil {
		return nil, ds, err
	}
	return hierarchy.Build(raw), ds, nil
}
