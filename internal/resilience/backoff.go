package resilience

import (
	"context"
	"time"
)

// Backoff is an exponential retry schedule: the delay before retry n
// (1-based) is Base * 2^(n-1).
type Backoff struct {
	// Base is the delay before the first retry.
	Base time.Duration

	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
}

// Attempts returns the total number of attempts, including the first.
func (b Backoff) Attempts() int { return b.MaxRetries + 1 }

// Delay returns the wait before retry n. Non-positive n yields zero.
func (b Backoff) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return b.Base << (n - 1)
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the production [Sleeper]. It returns ctx.Err() when ctx ends
// before d elapses.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
