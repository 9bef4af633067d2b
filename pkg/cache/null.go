package cache

import (
	"context"
	"time"
)

// NullCache is the backend used when caching is switched off (--no-cache or
// cache.disabled). Every lookup misses and every write is dropped, but a
// cancelled context is still reported so callers see the same errors they
// would from a real backend.
type NullCache struct{}

// NewNullCache returns the disabled backend.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (NullCache) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
