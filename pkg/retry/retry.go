// Package retry provides the bounded-retry combinator used by every
// store-write path. Backoff is linear: attempt n waits n times the base
// delay before running.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Defaults for store-write retries.
const (
	DefaultAttempts = 3
	DefaultBackoff  = 200 * time.Millisecond
)

// Policy configures a retry loop.
type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// Option applies a configuration option to a Policy.
type Option func(*Policy)

// WithAttempts sets the total attempt count (including the first try).
func WithAttempts(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.Attempts = n
		}
	}
}

// WithBackoff sets the base backoff delay.
func WithBackoff(d time.Duration) Option {
	return func(p *Policy) {
		if d >= 0 {
			p.Backoff = d
		}
	}
}

// NewPolicy builds a Policy from defaults and options.
func NewPolicy(opts ...Option) Policy {
	p := Policy{Attempts: DefaultAttempts, Backoff: DefaultBackoff}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Do runs fn up to p.Attempts times with linear backoff between attempts,
// honoring ctx cancellation while waiting. It returns nil on the first
// success, or the last error wrapped with the attempt count once the budget
// is exhausted.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
		if last = fn(ctx); last == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		wait := time.Duration(attempt) * p.Backoff
		if wait > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("exhausted %d attempts: %w", attempts, last)
}
