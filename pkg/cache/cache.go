// Package cache stores computed page layouts and rendered documents.
//
// A [Cache] is a byte-oriented key/value store with per-entry TTLs. Keys are
// produced by a [Keyer] from a content hash of the input images plus the
// options that influence the result, so identical requests hit the cache
// regardless of where the images came from.
//
// Backends:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching (--no-cache)
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a key/value store for cached layouts and artifacts.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
