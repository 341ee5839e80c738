// Package cache provides content-hash-keyed caching for the layout
// pipeline: a decoded graph, its computed layout, and rendered artifacts
// can each be skipped on a repeat request for the same input.
package cache

import (
	"context"
	"time"
)

// Cache stores and retrieves opaque byte payloads by key. Implementations
// need not be goroutine-safe; callers that share a Cache across goroutines
// must synchronize their own access.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for each pipeline stage's cache entries. Graphs and layouts are
// deterministic functions of their input, so they can live long; rendered
// artifacts are cheap to regenerate and use a shorter TTL to bound disk use.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
