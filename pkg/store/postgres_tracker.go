package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTracker persists correction counters to Postgres via pgx. It
// expects a table of the shape:
//
//	CREATE TABLE correction_counts (
//	    original TEXT NOT NULL,
//	    final    TEXT NOT NULL,
//	    decision TEXT NOT NULL,
//	    count    BIGINT NOT NULL DEFAULT 0,
//	    PRIMARY KEY (original, final, decision)
//	);
//
// Schema management itself is out of scope; PostgresTracker only issues
// the upsert and lookup queries.
type PostgresTracker struct {
	pool *pgxpool.Pool
}

// NewPostgresTracker wraps an existing connection pool.
func NewPostgresTracker(pool *pgxpool.Pool) *PostgresTracker {
	return &PostgresTracker{pool: pool}
}

// Increment implements Tracker.
func (t *PostgresTracker) Increment(ctx context.Context, original, final, decision string) error {
	const q = `
		INSERT INTO correction_counts (original, final, decision, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (original, final, decision)
		DO UPDATE SET count = correction_counts.count + 1
	`
	if _, err := t.pool.Exec(ctx, q, original, final, decision); err != nil {
		return fmt.Errorf("store: increment correction count for %q: %w", original, err)
	}
	return nil
}

// Counts implements Tracker.
func (t *PostgresTracker) Counts(ctx context.Context, original string) ([]CorrectionCount, error) {
	const q = `
		SELECT original, final, decision, count
		FROM correction_counts
		WHERE original = $1
		ORDER BY count DESC
	`
	rows, err := t.pool.Query(ctx, q, original)
	if err != nil {
		return nil, fmt.Errorf("store: query correction counts for %q: %w", original, err)
	}
	defer rows.Close()

	var out []CorrectionCount
	for rows.Next() {
		var c CorrectionCount
		if err := rows.Scan(&c.Original, &c.Final, &c.Decision, &c.Count); err != nil {
			return nil, fmt.Errorf("store: scan correction count row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate correction count rows: %w", err)
	}
	return out, nil
}

// Close implements Tracker.
func (t *PostgresTracker) Close() error {
	t.pool.Close()
	return nil
}
