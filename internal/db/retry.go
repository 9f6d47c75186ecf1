package db

import (
	"context"
	"time"
)

// Retry policy for transient storage failures (write contention, I/O).
// Bounded at three attempts with linear backoff; callers must only wrap
// idempotent operations — non-idempotent writes are never retried blindly.
const (
	retryAttempts = 3
	retryBackoff  = 50 * time.Millisecond
)

// WithRetry runs fn up to retryAttempts times, backing off between
// attempts. The last error is returned when all attempts fail.
func WithRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == retryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * retryBackoff):
		}
	}
	return err
}
