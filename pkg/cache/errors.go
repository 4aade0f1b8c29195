package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for cache backends.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned when a backend cannot be reached (refused
	// connections, timeouts). Wrap it with Retryable when the failure is
	// worth another attempt, e.g. Redis still starting up.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks an error as transient. RetryWithBackoff retries
// only errors carrying this marker; everything else fails immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as transient. Returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries the RetryableError marker
// anywhere in its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff schedule for RetryWithBackoff: three attempts, one second
// before the first retry, doubling after that.
const (
	retryAttempts     = 3
	retryInitialDelay = time.Second
)

// RetryWithBackoff runs fn until it succeeds, returns a non-retryable
// error, or the attempt budget runs out. Waiting between attempts is
// interruptible: a cancelled ctx surfaces as ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	var err error
	delay := retryInitialDelay

	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == retryAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
