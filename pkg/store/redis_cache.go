package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache backed by a Redis (or Redis-compatible) server.
// The single-flight lock is a plain SETNX with a TTL: whoever sets the
// key first owns the computation, and the lock expires on its own if the
// owner never calls Unlock, so a crashed worker cannot wedge a key
// forever.
type RedisCache struct {
	client *redis.Client
	prefix string
	locks  string
}

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithKeyPrefix namespaces every key this cache touches, so one Redis
// instance can host multiple decode caches (e.g. per-model versions).
func WithKeyPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// NewRedisCache wraps an existing *redis.Client.
func NewRedisCache(client *redis.Client, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{client: client, locks: "lock:"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) valueKey(key string) string { return c.prefix + "v:" + key }
func (c *RedisCache) lockKey(key string) string  { return c.prefix + c.locks + key }

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (DecodeResult, bool, error) {
	raw, err := c.client.Get(ctx, c.valueKey(key)).Bytes()
	if err == redis.Nil {
		return DecodeResult{}, false, nil
	}
	if err != nil {
		return DecodeResult{}, false, fmt.Errorf("store: redis get %s: %w", key, err)
	}
	var result DecodeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return DecodeResult{}, false, fmt.Errorf("store: decode cached value for %s: %w", key, err)
	}
	return result, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value DecodeResult, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode cache value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.valueKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}

// Lock implements Cache's single-flight contract via SETNX.
func (c *RedisCache) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.lockKey(key), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("store: redis lock %s: %w", key, err)
	}
	return ok, nil
}

// Unlock implements Cache.
func (c *RedisCache) Unlock(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("store: redis unlock %s: %w", key, err)
	}
	return nil
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
