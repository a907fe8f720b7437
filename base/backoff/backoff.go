package backoff

import (
	"context"
	"time"
)

// Backoff sleeps for a growing duration between retries, capped at limit.
// The zero count sleeps for start; a cancelled context cuts the sleep short
// and surfaces the context error.
type Backoff struct {
	start time.Duration
	limit time.Duration
	next  time.Duration
}

// NewExponential doubles the wait on every call, capped at limit.
func NewExponential(start, limit time.Duration) *Backoff {
	return &Backoff{start: start, limit: limit, next: start}
}

func (b *Backoff) Reset() {
	b.next = b.start
}

func (b *Backoff) Backoff(ctx context.Context) error {
	t := time.NewTimer(b.next)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	b.next *= 2
	if b.limit > 0 && b.next > b.limit {
		b.next = b.limit
	}
	return nil
}
