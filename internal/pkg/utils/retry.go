package utils

import (
	"context"
	"time"

	"dococlock-service/internal/pkg/exceptions"
)

const (
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 100 * time.Millisecond
)

// RetryWithBackoff runs fn up to attempts times, doubling the delay after each retryable
// failure. Only errors in the persistence family are retried; anything else is returned
// immediately. Callers must only pass idempotent operations.
func RetryWithBackoff(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}

	delay := baseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !exceptions.IsRetryable(err) || attempt == attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}
