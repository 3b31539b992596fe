package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads missing entries with fn and stores the result.
// Errors are returned without caching.
type ReadThroughCache[V any, I any] struct {
	cache  CacheManager[V]
	fn     func(ctx context.Context, input I) (V, error)
	bypass bool
}

// NewReadThroughCache wraps cache with loader fn. With bypass set every call
// goes straight to fn.
func NewReadThroughCache[V any, I any](
	cache CacheManager[V],
	fn func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[V, I] {
	return &ReadThroughCache[V, I]{
		cache:  cache,
		fn:     fn,
		bypass: bypass,
	}
}

// Get returns the entry at key, loading it from input on a miss.
func (r *ReadThroughCache[V, I]) Get(ctx context.Context, key string, input I, ttl time.Duration) (V, error) {
	if r.bypass {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Invalidate drops the entries at keys.
func (r *ReadThroughCache[V, I]) Invalidate(ctx context.Context, keys ...string) {
	r.cache.Delete(ctx, keys...)
}
