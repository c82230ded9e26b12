// Package cache provides byte-oriented caching backends for DevPulse.
//
// Three implementations of [Cache] are available:
//   - [FileCache]: one JSON file per entry, used by the CLI (~/.cache/devpulse/)
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are namespaced with [HTTPKey] so that responses from different
// upstream endpoints never collide.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with a per-entry time-to-live.
type Cache interface {
	// Get returns the value for key. A miss or an expired entry returns
	// (nil, false, nil); errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// HTTPKey builds the cache key for an upstream HTTP response.
// Format: "http:{namespace}:{key}".
func HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}
