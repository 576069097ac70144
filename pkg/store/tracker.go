package store

import "context"

// CorrectionCount is one tracked correction outcome: how many times a
// given original token was resolved to a given final string, and by
// which decision.
type CorrectionCount struct {
	Original string
	Final    string
	Decision string
	Count    int64
}

// Tracker persists correction-tracking counters (spec.md §6: "From
// persistence layer: ability to look up and store k-best lists, bin
// assignments, decisions"). Implementations only need to track the
// decision outcome, not the full k-best list, which callers already hold
// in a token.Token and can log separately.
type Tracker interface {
	Increment(ctx context.Context, original, final, decision string) error
	Counts(ctx context.Context, original string) ([]CorrectionCount, error)
	Close() error
}
