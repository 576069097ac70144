package store

import (
	"context"
	"sort"
	"sync"
)

type trackerKey struct {
	original string
	final    string
	decision string
}

// MemoryTracker is an in-process Tracker for single-process runs and
// tests.
type MemoryTracker struct {
	mu     sync.Mutex
	counts map[trackerKey]int64
}

// NewMemoryTracker builds an empty MemoryTracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{counts: make(map[trackerKey]int64)}
}

// Increment implements Tracker.
func (t *MemoryTracker) Increment(_ context.Context, original, final, decision string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[trackerKey{original, final, decision}]++
	return nil
}

// Counts implements Tracker.
func (t *MemoryTracker) Counts(_ context.Context, original string) ([]CorrectionCount, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []CorrectionCount
	for k, n := range t.counts {
		if k.original != original {
			continue
		}
		out = append(out, CorrectionCount{Original: k.original, Final: k.final, Decision: k.decision, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// Close implements Tracker.
func (t *MemoryTracker) Close() error { return nil }
