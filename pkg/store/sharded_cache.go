package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// ShardedCache spreads decode-cache keys across multiple Cache backends
// using rendezvous (highest random weight) hashing, so adding or
// removing a shard only reassigns the keys that hashed to that shard
// rather than reshuffling the whole keyspace the way modulo sharding
// would.
type ShardedCache struct {
	shards map[string]Cache
	hash   *rendezvous.Rendezvous
}

// NewShardedCache builds a ShardedCache over named shards.
func NewShardedCache(shards map[string]Cache) *ShardedCache {
	names := make([]string, 0, len(shards))
	for name := range shards {
		names = append(names, name)
	}
	return &ShardedCache{
		shards: shards,
		hash:   rendezvous.New(names, xxhash.Sum64String),
	}
}

func (s *ShardedCache) shardFor(key string) (Cache, error) {
	name := s.hash.Lookup(key)
	shard, ok := s.shards[name]
	if !ok {
		return nil, fmt.Errorf("store: no shard named %q for key %q", name, key)
	}
	return shard, nil
}

// Get implements Cache.
func (s *ShardedCache) Get(ctx context.Context, key string) (DecodeResult, bool, error) {
	shard, err := s.shardFor(key)
	if err != nil {
		return DecodeResult{}, false, err
	}
	return shard.Get(ctx, key)
}

// Set implements Cache.
func (s *ShardedCache) Set(ctx context.Context, key string, value DecodeResult, ttl time.Duration) error {
	shard, err := s.shardFor(key)
	if err != nil {
		return err
	}
	return shard.Set(ctx, key, value, ttl)
}

// Lock implements Cache.
func (s *ShardedCache) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	shard, err := s.shardFor(key)
	if err != nil {
		return false, err
	}
	return shard.Lock(ctx, key, ttl)
}

// Unlock implements Cache.
func (s *ShardedCache) Unlock(ctx context.Context, key string) error {
	shard, err := s.shardFor(key)
	if err != nil {
		return err
	}
	return shard.Unlock(ctx, key)
}

// Close closes every shard, returning the first error encountered.
func (s *ShardedCache) Close() error {
	var firstErr error
	for _, shard := range s.shards {
		if err := shard.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
