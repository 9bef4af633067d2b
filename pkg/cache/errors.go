package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is wrapped by errors returned when a shared backend cannot
// be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// transientError marks a failure that may clear up on its own, such as a
// refused connection while Redis is starting.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// transient marks err as worth another attempt. It returns nil for nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

func isTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// backoff retries an operation with a doubling delay capped at max.
type backoff struct {
	attempts int
	first    time.Duration
	max      time.Duration
}

// dialBackoff governs the initial connection to a shared backend.
var dialBackoff = backoff{attempts: 3, first: 200 * time.Millisecond, max: 2 * time.Second}

// retry runs fn until it succeeds, returns a non-transient error, or the
// attempts run out. The last error is returned with its transient marker
// stripped.
func (b backoff) retry(ctx context.Context, fn func() error) error {
	delay := b.first
	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(); err == nil {
			return nil
		}
		if !isTransient(err) || attempt >= b.attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if delay *= 2; delay > b.max {
			delay = b.max
		}
	}

	if t, ok := err.(transientError); ok {
		return t.err
	}
	return err
}
