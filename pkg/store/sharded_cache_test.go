package store

import (
	"context"
	"testing"
	"time"
)

func TestShardedCacheRoutesConsistently(t *testing.T) {
	shards := map[string]Cache{
		"a": NewMemoryCache(time.Minute, time.Minute),
		"b": NewMemoryCache(time.Minute, time.Minute),
		"c": NewMemoryCache(time.Minute, time.Minute),
	}
	sc := NewShardedCache(shards)
	ctx := context.Background()

	want := DecodeResult{Candidates: []CachedCandidate{{Candidate: "the", LogProb: -1}}}
	if err := sc.Set(ctx, "token-1", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// The same key must always resolve to the same shard.
	got, ok, err := sc.Get(ctx, "token-1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Candidates[0].Candidate != "the" {
		t.Fatalf("got %+v", got)
	}

	hits := 0
	for _, shard := range shards {
		if _, ok, _ := shard.Get(ctx, "token-1"); ok {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("expected exactly one shard to hold the key, got %d", hits)
	}
}

func TestShardedCacheLockDelegates(t *testing.T) {
	shards := map[string]Cache{
		"a": NewMemoryCache(time.Minute, time.Minute),
		"b": NewMemoryCache(time.Minute, time.Minute),
	}
	sc := NewShardedCache(shards)
	ctx := context.Background()

	ok, err := sc.Lock(ctx, "k", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected lock to succeed, got %v %v", ok, err)
	}
	ok, err = sc.Lock(ctx, "k", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second lock on same key to fail, got %v %v", ok, err)
	}
}
