package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultInitialInterval = 100 * time.Millisecond
	defaultMultiplier      = 2.0
	defaultMaxInterval     = 1 * time.Second
	defaultRandomization   = 0.5
	defaultMaxElapsed      = 3 * time.Second
	defaultMaxAttempts     = 3
)

// Policy bounds a retry loop. Zero fields take the defaults above.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// Fast is tuned for a lookup that sits in front of user input: a few tries,
// at most a few seconds in total.
func Fast() Policy {
	return Policy{
		MaxAttempts:     defaultMaxAttempts,
		InitialInterval: defaultInitialInterval,
		MaxInterval:     defaultMaxInterval,
		MaxElapsed:      defaultMaxElapsed,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = defaultInitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = defaultMaxInterval
	}
	if p.MaxElapsed <= 0 {
		p.MaxElapsed = defaultMaxElapsed
	}
	return p
}

// PermanentError wraps a non-retryable error.
type PermanentError struct {
	err error
}

func (e PermanentError) Error() string {
	if e.err == nil {
		return "permanent error"
	}
	return e.err.Error()
}

func (e PermanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		return err
	}
	return PermanentError{err: err}
}

// IsPermanent reports whether err is marked as non-retryable.
func IsPermanent(err error) bool {
	var pe PermanentError
	if errors.As(err, &pe) {
		return true
	}

	var bpe *backoff.PermanentError
	return errors.As(err, &bpe)
}

// Do calls fn until it succeeds, returns a permanent error, the context is
// done, or the policy is exhausted. The value of the last successful call
// is returned. Permanent errors come back unwrapped from PermanentError.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.Multiplier = defaultMultiplier
	exp.MaxInterval = p.MaxInterval
	exp.RandomizationFactor = defaultRandomization
	exp.Reset()

	op := func() (T, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, backoff.Permanent(err)
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if IsPermanent(err) {
			var pe PermanentError
			if errors.As(err, &pe) && pe.err != nil {
				err = pe.err
			}
			return zero, backoff.Permanent(err)
		}
		return zero, err
	}

	return backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(exp),
		backoff.WithMaxTries(p.MaxAttempts),
		backoff.WithMaxElapsedTime(p.MaxElapsed),
	)
}
