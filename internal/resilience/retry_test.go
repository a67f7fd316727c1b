package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoValSucceedsFirstTry(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), RetryConfig{MaxAttempts: 3, Backoff: LinearBackoff(time.Millisecond)},
		func(ctx context.Context) (string, error) {
			calls++
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 1, calls)
}

func TestDoValRetriesUntilSuccess(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), RetryConfig{MaxAttempts: 3, Backoff: LinearBackoff(time.Millisecond)},
		func(ctx context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, eris.New("transient")
			}
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 3, calls)
}

func TestDoValExhaustsAttempts(t *testing.T) {
	calls := 0
	var retries []int
	_, err := DoVal(context.Background(), RetryConfig{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Millisecond),
		OnRetry:     func(attempt int, err error) { retries = append(retries, attempt) },
	}, func(ctx context.Context) (int, error) {
		calls++
		return 0, eris.New("always fails")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDoValStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoVal(ctx, RetryConfig{MaxAttempts: 5, Backoff: LinearBackoff(time.Minute)},
		func(ctx context.Context) (int, error) {
			calls++
			cancel()
			return 0, eris.New("fail")
		})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValShouldRetryFilter(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), RetryConfig{
		MaxAttempts: 5,
		Backoff:     LinearBackoff(time.Millisecond),
		ShouldRetry: func(err error) bool { return false },
	}, func(ctx context.Context) (int, error) {
		calls++
		return 0, eris.New("permanent")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestLinearBackoff(t *testing.T) {
	b := LinearBackoff(2 * time.Second)
	assert.Equal(t, 2*time.Second, b(1))
	assert.Equal(t, 4*time.Second, b(2))
	assert.Equal(t, 6*time.Second, b(3))
}
