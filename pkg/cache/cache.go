// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for shared deployments of the HTTP API, and [NullCache] when caching is
// disabled. Keys come from a [Keyer] and are derived from content hashes,
// so identical input and options always hit the same entry.
//
// Cache failures are never fatal to a run: callers treat errors from Get as
// misses and log errors from Set.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/hexgrid/pkg/observability"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// WithHooks wraps c so that every Get and Set reports to the registered
// observability cache hooks. The key type is the key prefix up to the first
// colon ("layout", "artifact").
func WithHooks(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	if _, ok := c.(*hooked); ok {
		return c
	}
	return &hooked{Cache: c}
}

type hooked struct {
	Cache
}

func (h *hooked) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := h.Cache.Get(ctx, key)
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, err
}

func (h *hooked) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := h.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// keyType returns the segment of key before the last colon-separated hash,
// skipping any scope prefix: "api:layout:ab12" yields "layout".
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}
