package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance without reading each other's artifacts.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "flamekit:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(flameHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(flameHash, opts)
}
