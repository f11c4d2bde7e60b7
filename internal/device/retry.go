package device

import (
	"context"
	"errors"
	"time"
)

// Retry policy for transient command failures. Permission and missing
// tool errors are never retried.
const (
	retryAttempts     = 3
	retryInitialDelay = 500 * time.Millisecond
)

// ApplyWithRetry calls backend.Apply, retrying transient failures with a
// doubling backoff. The last error is returned when all attempts fail.
func ApplyWithRetry(ctx context.Context, backend Backend, percent int) error {
	var lastErr error
	delay := retryInitialDelay

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		lastErr = backend.Apply(ctx, percent)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrTransient) {
			return lastErr
		}
		if attempt == retryAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return lastErr
}
