// Package source loads raw dataset bytes from local files, HTTP endpoints
// and MongoDB.
//
// [Open] picks the loader from the reference syntax:
//
//	data/housing.json             local file (format from extension)
//	https://example.org/tree.yaml HTTP(S) with retry and caching
//	mongo:housing                 MongoDB document whose name field is "housing"
//
// Loaders return a [Dataset]; decoding into a hierarchy is left to
// [Dataset.Decode] so callers can hash the raw bytes for caching first.
// Failures carry the DATA_LOAD_FAILURE, NETWORK_ERROR or INVALID_PATH
// codes from pkg/errors.
package source

import (
	"context"
	"strings"

	"github.com/matzehuels/zoomtree/pkg/cache"
	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/httputil"
	zio "github.com/matzehuels/zoomtree/pkg/io"
)

// MongoPrefix marks a MongoDB reference.
const MongoPrefix = "mongo:"

// Source fetches one dataset.
type Source interface {
	Fetch(ctx context.Context) (Dataset, error)
	String() string
}

// Dataset is an undecoded document together with its format.
type Dataset struct {
	Ref    string
	Format zio.Format
	Data   []byte
}

// Decode extracts the hierarchy at path (default "$.data").
func (d Dataset) Decode(path string) (hierarchy.RawNode, error) {
	raw, err := zio.Decode(d.Data, d.Format, path)
	if err != nil {
		return hierarchy.RawNode{}, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeDataLoad), err, "decode %s", d.Ref)
	}
	return raw, nil
}

// Hash returns a content hash for cache keys.
func (d Dataset) Hash() string {
	return cache.Hash(d.Data)
}

// Options configures the loaders created by [Open].
type Options struct {
	// Format overrides extension-based detection when set.
	Format zio.Format

	// HTTP is used for remote references. Nil means httputil.NewClient().
	HTTP *httputil.Client

	// Cache stores remote datasets for cache.TTLDataset. Nil disables it.
	Cache cache.Cache
	Keyer cache.Keyer

	Mongo MongoConfig
}

// Open returns the loader for ref.
func Open(ref string, opts Options) (Source, error) {
	switch {
	case strings.HasPrefix(ref, MongoPrefix):
		name := strings.TrimPrefix(ref, MongoPrefix)
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "mongo reference needs a document name: %q", ref)
		}
		return NewMongo(name, opts.Mongo), nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if err := errors.ValidateURL(ref); err != nil {
			return nil, err
		}
		return NewHTTP(ref, opts), nil
	default:
		if err := errors.ValidatePath(ref); err != nil {
			return nil, err
		}
		return NewFile(ref, opts.Format), nil
	}
}

// IsRemote reports whether ref is loaded over the network.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, MongoPrefix)
}

func formatFor(ref string, override zio.Format) zio.Format {
	if override != "" {
		return override
	}
	return zio.DetectFormat(ref)
}
