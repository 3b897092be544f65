package db

import "context"

// IncrementCounter bumps the counter for (prefix, year, month) and returns the
// new value. The upsert is a single statement so concurrent callers always see
// distinct values.
func (q *Queries) IncrementCounter(ctx context.Context, prefix string, year, month int) (int64, error) {
	var counter int64
	err := q.q.QueryRowContext(ctx, `
		INSERT INTO code_counters (prefix, year, month, counter) VALUES (?, ?, ?, 1)
		ON CONFLICT(prefix, year, month) DO UPDATE SET counter = counter + 1
		RETURNING counter
	`, prefix, year, month).Scan(&counter)
	return counter, err
}
