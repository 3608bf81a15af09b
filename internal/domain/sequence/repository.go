// Package sequence issues per-scope counters for human-readable codes
// (employee codes, item codes, transaction ids, receipt numbers).
package sequence

import "context"

type SequenceRepository interface {
	// Next atomically increments the counter for scope and returns the new
	// value. The first call for a scope returns 1.
	Next(ctx context.Context, scope string) (int64, error)
	All(ctx context.Context) (map[string]int64, error)
	Set(ctx context.Context, scope string, value int64) error
}
