// Package store provides the external persistence collaborators the
// decoder and correction stages consult: a content-addressed decode
// cache and a correction-tracking counter store (spec.md §4.3.3, §6).
package store

import (
	"context"
	"errors"
	"time"
)

// ErrCacheUnavailable is returned by a Cache implementation that cannot
// currently reach its backing store.
var ErrCacheUnavailable = errors.New("store: cache unavailable")

// DecodeResult is the cached payload for one (token, HMM, M, k) key
// (spec.md §4.3.3).
type DecodeResult struct {
	Candidates []CachedCandidate
}

// CachedCandidate is the serializable form of a decode.KBestEntry, kept
// independent of the decode package so this package has no import-cycle
// risk with it.
type CachedCandidate struct {
	Candidate string
	LogProb   float64
}

// Cache is the decode cache's external contract. Get reports whether a
// value was present; Set stores a value with an optional TTL (ttl <= 0
// means no expiry). Lock/Unlock implement the "at-most-one concurrent
// computation per key" contract (spec.md §4.3.3, §5) via a short-lived
// distributed lock keyed the same way as the cached value.
type Cache interface {
	Get(ctx context.Context, key string) (DecodeResult, bool, error)
	Set(ctx context.Context, key string, value DecodeResult, ttl time.Duration) error
	// Lock attempts to acquire the single-flight lock for key, returning
	// true if this caller now owns it.
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Close() error
}
