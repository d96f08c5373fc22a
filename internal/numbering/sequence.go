package numbering

import (
	"context"
	"fmt"
	"time"
)

// Sequence hands out the next value of a named monotonic counter. The
// Mongo implementation backs it with an atomic $inc upsert; reading a
// count and adding one is not an implementation of this contract, because
// two concurrent callers can observe the same count and collide.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
}

func counterName(year int) string {
	return fmt.Sprintf("orders_%d", year)
}

// OrderNumber formats a human-readable order identifier,
// e.g. SO-2026-00042.
func OrderNumber(year int, seq int64) string {
	return fmt.Sprintf("SO-%d-%05d", year, seq)
}

// NextOrderNumber reserves the next value of the calendar-year counter and
// formats it. Numbers are unique and increasing within a year as long as
// the Sequence is atomic.
func NextOrderNumber(ctx context.Context, seq Sequence, now time.Time) (string, error) {
	year := now.Year()
	n, err := seq.Next(ctx, counterName(year))
	if err != nil {
		return "", fmt.Errorf("reserve order sequence: %w", err)
	}
	return OrderNumber(year, n), nil
}
