package cache

import (
	"context"
	"errors"
	"time"
)

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as temporary so Backoff.Retry tries again.
// Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff retries an operation with exponentially growing delays.
type Backoff struct {
	Base     time.Duration
	Attempts int
}

// DefaultBackoff is used when connecting to remote backends.
var DefaultBackoff = Backoff{Base: 200 * time.Millisecond, Attempts: 3}

// Retry calls fn until it succeeds, returns an error not marked Transient,
// or the attempts are used up. The last error is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Base
	attempts := max(b.Attempts, 1)

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
