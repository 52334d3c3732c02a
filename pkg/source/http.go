package source

import (
	"context"

	"github.com/matzehuels/zoomtree/pkg/cache"
	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/httputil"
	zio "github.com/matzehuels/zoomtree/pkg/io"
)

// HTTP loads a dataset from a URL, consulting the cache first.
type HTTP struct {
	URL    string
	Format zio.Format

	client *httputil.Client
	cache  cache.Cache
	keyer  cache.Keyer
}

// NewHTTP creates an HTTP loader.
func NewHTTP(url string, opts Options) *HTTP {
	h := &HTTP{
		URL:    url,
		Format: formatFor(url, opts.Format),
		client: opts.HTTP,
		cache:  opts.Cache,
		keyer:  opts.Keyer,
	}
	if h.client == nil {
		h.client = httputil.NewClient()
	}
	if h.cache == nil {
		h.cache = cache.NewNullCache()
	}
	if h.keyer == nil {
		h.keyer = cache.NewDefaultKeyer()
	}
	return h
}

// Fetch downloads the dataset, or returns a cached copy younger than
// cache.TTLDataset. Cache failures are not fatal.
func (h *HTTP) Fetch(ctx context.Context) (Dataset, error) {
	key := h.keyer.DatasetKey(h.URL, cache.DatasetKeyOpts{Kind: "http"})
	if data, ok, err := h.cache.Get(ctx, key); err == nil && ok {
		return Dataset{Ref: h.URL, Format: h.Format, Data: data}, nil
	}

	data, err := h.client.Get(ctx, h.URL)
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", h.URL)
	}
	_ = h.cache.Set(ctx, key, data, cache.TTLDataset)
	return Dataset{Ref: h.URL, Format: h.Format, Data: data}, nil
}

func (h *HTTP) String() string { return h.URL }
