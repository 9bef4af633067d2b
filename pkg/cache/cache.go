// Package cache stores rendered artifacts so repeated renders of the same
// scene are served without re-running the display pass and the sinks.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: sharded entry files under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP server
//   - [NullCache]: never stores anything (caching disabled)
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the scene and the render
// options; [ScopedKeyer] prefixes keys so several front ends can share one
// backend without collisions.
package cache

import (
	"context"
	"time"
)

// Default time-to-live for cache entries.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLScene    = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. A ttl of zero stores
// the entry without expiry. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
