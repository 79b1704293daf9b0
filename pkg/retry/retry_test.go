package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(opts ...Option) *Retrier {
	base := []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond), WithJitter(0)}
	return New(append(base, opts...)...)
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	var retries int
	r := fastRetrier(WithMaxAttempts(5), WithOnRetry(func(error, time.Duration) { retries++ }))

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, retries)
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	boom := errors.New("boom")

	err := fastRetrier(WithMaxAttempts(3)).Do(context.Background(), func(context.Context) error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	attempts := 0
	boom := errors.New("bad credentials")

	err := fastRetrier(WithMaxAttempts(5)).Do(context.Background(), func(context.Context) error {
		attempts++
		return Permanent(boom)
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, IsPermanent(err))
	assert.Equal(t, 1, attempts)
}

func TestDo_RetryIf(t *testing.T) {
	attempts := 0
	skip := errors.New("skip")

	err := fastRetrier(WithMaxAttempts(5), WithRetryIf(func(err error) bool { return !errors.Is(err, skip) })).
		Do(context.Background(), func(context.Context) error {
			attempts++
			return skip
		})

	assert.ErrorIs(t, err, skip)
	assert.Equal(t, 1, attempts)
}

func TestDoWithData(t *testing.T) {
	attempts := 0
	v, err := DoWithData(context.Background(), fastRetrier(), func(context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
