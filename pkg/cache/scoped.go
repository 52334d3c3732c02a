package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance:
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DatasetKey implements Keyer.
func (k *ScopedKeyer) DatasetKey(source string, opts DatasetKeyOpts) string {
	return k.prefix + k.inner.DatasetKey(source, opts)
}

// RenderKey implements Keyer.
func (k *ScopedKeyer) RenderKey(datasetHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(datasetHash, opts)
}
