package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"igkit/pkg/errors"
	"igkit/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &ConstantBackoff{Delay: 0},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, fastConfig(3))

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errors.Unavailable("Unable to create connection.", nil)
		}
		return nil
	}, fastConfig(5))

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errors.Unavailable("Unable to create connection.", nil)
	}, fastConfig(3))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "max retry attempts (3) exceeded")

	// The wrapped cause must still be reachable for callers classifying it
	var apiErr *errors.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeUnavailable, apiErr.Type)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	parseErr := errors.Parsing(200, "Unable to parse JSON response.")
	err := Do(func() error {
		calls++
		return parseErr
	}, fastConfig(5))

	assert.Equal(t, 1, calls)
	assert.Equal(t, parseErr, err)
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := fastConfig(0)
	cfg.Context = ctx
	cfg.Backoff = &ConstantBackoff{Delay: time.Hour}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(func() error {
			calls++
			return errors.Unavailable("down", nil)
		}, cfg)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retry cancelled")
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not observe cancellation")
	}
}

func TestDoOnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
	}

	_ = Do(func() error {
		return errors.Unavailable("down", nil)
	}, cfg)

	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.Unavailable("down", nil)
		}
		return "ok", nil
	}, fastConfig(3))

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestDefaultRetryIf(t *testing.T) {
	assert.False(t, DefaultRetryIf(nil))
	assert.True(t, DefaultRetryIf(errors.Unavailable("down", nil)))
	assert.True(t, DefaultRetryIf(errors.Server(502, "bad gateway")))
	assert.False(t, DefaultRetryIf(errors.Parsing(200, "nope")))
	assert.False(t, DefaultRetryIf(fmt.Errorf("plain error")))
	assert.False(t, DefaultRetryIf(context.Canceled))
}

func TestRetrierWithMaxAttempts(t *testing.T) {
	base := NewRetrier(fastConfig(3))
	tight := base.WithMaxAttempts(1)

	calls := 0
	_ = tight.Do(func() error {
		calls++
		return errors.Unavailable("down", nil)
	})
	assert.Equal(t, 1, calls)

	// The original retrier is unchanged
	calls = 0
	_ = base.Do(func() error {
		calls++
		return errors.Unavailable("down", nil)
	})
	assert.Equal(t, 3, calls)
}

func TestExponentialBackoff(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
	}

	assert.Equal(t, time.Duration(0), eb.NextDelay(0))
	assert.Equal(t, 100*time.Millisecond, eb.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, eb.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, eb.NextDelay(3))
	assert.Equal(t, 1*time.Second, eb.NextDelay(10), "capped at MaxDelay")
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}

	for i := 0; i < 50; i++ {
		delay := eb.NextDelay(1)
		assert.GreaterOrEqual(t, delay, 90*time.Millisecond)
		assert.LessOrEqual(t, delay, 110*time.Millisecond)
	}
}

func TestConstantBackoff(t *testing.T) {
	cb := &ConstantBackoff{Delay: 50 * time.Millisecond}

	assert.Equal(t, time.Duration(0), cb.NextDelay(0))
	assert.Equal(t, 50*time.Millisecond, cb.NextDelay(1))
	assert.Equal(t, 50*time.Millisecond, cb.NextDelay(7))
}

func TestWait(t *testing.T) {
	t.Run("zero delay returns immediately", func(t *testing.T) {
		assert.NoError(t, Wait(context.Background(), 0))
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Wait(ctx, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
