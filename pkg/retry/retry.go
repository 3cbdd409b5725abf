// Package retry runs an operation with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

type Operation = func(ctx context.Context) error

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    5,
		BackoffFactor: 2,
		InitialDelay:  300 * time.Millisecond,
		MaxDelay:      20 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// After asks Do to wait at least d before the next attempt, e.g. when the
// remote side sent a Retry-After hint.
type After struct {
	Err   error
	Delay time.Duration
}

func (e *After) Error() string { return e.Err.Error() }
func (e *After) Unwrap() error { return e.Err }

type Retrier struct {
	config *Config
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{
		config: config,
		sleep:  sleep,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var err error
	delay := r.config.InitialDelay
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}

		var perm permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == r.config.MaxRetries {
			break
		}

		wait := delay + time.Duration(rnd.Float64()*float64(r.config.Jitter))
		if wait > r.config.MaxDelay {
			wait = r.config.MaxDelay
		}
		var after *After
		if errors.As(err, &after) && after.Delay > wait {
			wait = after.Delay
		}

		if serr := r.sleep(ctx, wait); serr != nil {
			return serr
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
