// Package cache provides pluggable byte caching for rendered artifacts.
//
// The pipeline stores finished PNG images and fetched remote logos so that
// repeated generations of the same request skip the render entirely. Three
// backends are provided:
//
//   - [FileCache]: directory-backed, used by the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer] so that every render-affecting option
// participates in the key, and a [ScopedKeyer] can isolate tenants sharing
// one backend.
package cache

import (
	"context"
	"time"
)

// DefaultImageTTL is how long rendered images stay cached. Renders are
// deterministic, so the TTL exists only to bound disk usage.
const DefaultImageTTL = 7 * 24 * time.Hour

// DefaultLogoTTL is how long fetched remote logos stay cached. Shorter than
// images because the bytes behind a URL can change.
const DefaultLogoTTL = 24 * time.Hour

// Cache stores opaque byte values under string keys with per-entry TTL.
//
// Implementations must be safe for concurrent use. A zero TTL means the
// entry never expires.
type Cache interface {
	// Get retrieves a value. The boolean reports a hit; a miss is not an
	// error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Keyer builds cache keys for the artifacts the pipeline stores.
type Keyer interface {
	// HTTPKey builds a key for a fetched remote resource, such as a logo
	// downloaded from a URL. The namespace groups related resources.
	HTTPKey(namespace, key string) string

	// ImageKey builds a key for a finished rendered image. Every option
	// that changes output pixels must be part of opts.
	ImageKey(opts ImageKeyOpts) string
}

// ImageKeyOpts enumerates the inputs that determine a rendered image.
// Two requests with equal opts produce pixel-identical images, so they may
// share a cache entry.
type ImageKeyOpts struct {
	Data     string `json:"data"`
	BoxSize  int    `json:"box_size"`
	Border   int    `json:"border"`
	Fill     string `json:"fill"`
	Back     string `json:"back"`
	Style    string `json:"style"`
	LogoHash string `json:"logo_hash,omitempty"` // content hash of the decoded logo source
	LogoSize int    `json:"logo_size,omitempty"`
}

// DefaultKeyer is the standard key strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ImageKey generates a key for a rendered image by hashing all options.
func (k *DefaultKeyer) ImageKey(opts ImageKeyOpts) string {
	return hashKey("image", opts)
}
