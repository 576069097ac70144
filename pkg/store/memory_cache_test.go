package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := DecodeResult{Candidates: []CachedCandidate{{Candidate: "the", LogProb: -0.1}}}
	if err := c.Set(ctx, "k", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Candidates[0].Candidate != "the" {
		t.Fatalf("got %+v", got)
	}
}

func TestMemoryCacheLockIsSingleFlight(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	first, err := c.Lock(ctx, "k", time.Minute)
	if err != nil || !first {
		t.Fatalf("expected first lock to succeed, got %v %v", first, err)
	}
	second, err := c.Lock(ctx, "k", time.Minute)
	if err != nil || second {
		t.Fatalf("expected second concurrent lock to fail, got %v %v", second, err)
	}

	if err := c.Unlock(ctx, "k"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	third, err := c.Lock(ctx, "k", time.Minute)
	if err != nil || !third {
		t.Fatalf("expected lock to succeed after unlock, got %v %v", third, err)
	}
}

func TestMemoryTrackerIncrementAndCounts(t *testing.T) {
	tr := NewMemoryTracker()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := tr.Increment(ctx, "Wagor", "Wagon", "d"); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}
	if err := tr.Increment(ctx, "Wagor", "Vagor", "a"); err != nil {
		t.Fatalf("Increment: %v", err)
	}

	counts, err := tr.Counts(ctx, "Wagor")
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 distinct outcomes, got %d", len(counts))
	}
	if counts[0].Final != "Wagon" || counts[0].Count != 3 {
		t.Fatalf("expected the most frequent outcome first, got %+v", counts[0])
	}
}
