// Package cache stores rendered flame artifacts between runs.
//
// A [Cache] is a byte store keyed by strings. The CLI uses a [FileCache]
// under the XDG cache directory, the HTTP service can share a [RedisCache]
// between instances, and [NullCache] turns caching off. Keys come from a
// [Keyer] so that every backend lays out its namespace the same way.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered image stays cached. Renders are
// deterministic for a given flame and options, so entries only expire to
// bound disk and memory use.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a key-value store for rendered artifacts.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// failed, not that the key was absent. A ttl of zero stores the entry
// without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
// Workers is part of the key because each worker draws its own random
// stream, so the same seed with a different worker count gives a different
// image.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Quality int    `json:"quality,omitempty"`
	Seed    uint64 `json:"seed"`
	Samples uint64 `json:"samples,omitempty"`
	Workers int    `json:"workers"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of an image rendered from the flame whose
	// canonical document hashes to flameHash.
	ArtifactKey(flameHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes flameHash together with opts.
func (DefaultKeyer) ArtifactKey(flameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", flameHash, opts)
}
