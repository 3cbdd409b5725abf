package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary error")

// newTestRetrier records the waits instead of sleeping.
func newTestRetrier(maxRetries int) (*Retrier, *[]time.Duration) {
	var waits []time.Duration
	r := NewRetrier(&Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2,
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      35 * time.Millisecond,
	})
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	r, waits := newTestRetrier(3)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *waits)
}

func TestRetry_BackoffIsCapped(t *testing.T) {
	r, waits := newTestRetrier(4)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 5 {
			return errTemporary
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		35 * time.Millisecond,
		35 * time.Millisecond,
	}, *waits)
}

func TestRetry_GivesUp(t *testing.T) {
	r, waits := newTestRetrier(2)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errTemporary
	})
	assert.ErrorIs(t, err, errTemporary)
	assert.Equal(t, 3, calls)
	assert.Len(t, *waits, 2)
}

func TestRetry_Permanent(t *testing.T) {
	r, waits := newTestRetrier(5)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errTemporary)
	})
	assert.Equal(t, errTemporary, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *waits)
	assert.NoError(t, Permanent(nil))
}

func TestRetry_AfterHint(t *testing.T) {
	r, waits := newTestRetrier(1)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return &After{Err: errTemporary, Delay: time.Second}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second}, *waits)
}

func TestRetry_ContextCancelled(t *testing.T) {
	r := NewRetrier(&Config{MaxRetries: 10, BackoffFactor: 2, InitialDelay: time.Hour, MaxDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := r.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errTemporary
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
