package store

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process Cache, suitable for single-process runs
// or tests that should not require a running Redis (spec.md §6 lists the
// cache as an external collaborator behind an interface, not a mandated
// backend).
type MemoryCache struct {
	values *gocache.Cache
	mu     sync.Mutex
	locks  map[string]time.Time
}

// NewMemoryCache builds a MemoryCache. defaultTTL and cleanupInterval
// follow patrickmn/go-cache's own constructor shape.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		values: gocache.New(defaultTTL, cleanupInterval),
		locks:  make(map[string]time.Time),
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (DecodeResult, bool, error) {
	v, ok := c.values.Get(key)
	if !ok {
		return DecodeResult{}, false, nil
	}
	return v.(DecodeResult), true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value DecodeResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.values.Set(key, value, ttl)
	return nil
}

// Lock implements Cache's single-flight contract with a plain mutex-
// guarded expiry map, mirroring the Redis SETNX-with-TTL semantics for
// single-process use.
func (c *MemoryCache) Lock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if expiry, held := c.locks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	c.locks[key] = time.Now().Add(ttl)
	return true, nil
}

// Unlock implements Cache.
func (c *MemoryCache) Unlock(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, key)
	return nil
}

// Close implements Cache.
func (c *MemoryCache) Close() error { return nil }
