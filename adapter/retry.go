package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultBackoff is the delay before the first retry. Each later retry
// doubles it.
const DefaultBackoff = 500 * time.Millisecond

// ErrPermanent marks an attempt error that must not be retried.
var ErrPermanent = errors.New("permanent failure")

// Retry calls attempt up to 1+retries times with exponential backoff between
// calls. It stops early when attempt succeeds, when the error wraps
// ErrPermanent, or when ctx is done. name prefixes returned errors.
func Retry(ctx context.Context, name string, retries int, backoff time.Duration, attempt func(context.Context) error) error {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	attempts := 1 + retries

	var lastErr error
	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: context canceled: %w", name, err)
		}

		if i > 0 {
			delay := time.Duration(1<<uint(i-1)) * backoff
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s: context canceled during backoff: %w", name, ctx.Err())
			case <-timer.C:
			}
		}

		lastErr = attempt(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrPermanent) {
			return fmt.Errorf("%s: non-retriable error: %w", name, lastErr)
		}
	}

	return fmt.Errorf("%s: failed after %d attempts: %w", name, attempts, lastErr)
}
