// Package retry provides the bounded retry policy shared by the page
// fetcher and the alert dispatcher.
package retry

import (
	"context"
	"time"
)

// Policy retries an operation up to MaxAttempts total attempts, sleeping
// BaseDelay, 2*BaseDelay, 4*BaseDelay, ... between them. Retryable decides
// which errors are worth another attempt; a nil Retryable retries
// everything.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt >= attempts {
			return err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		delay := p.BaseDelay << (attempt - 1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
