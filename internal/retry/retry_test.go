package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/spetersoncode/openrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTransientError simulates a transient network error.
type mockTransientError struct {
	msg string
}

func (e *mockTransientError) Error() string   { return e.msg }
func (e *mockTransientError) Timeout() bool   { return true }
func (e *mockTransientError) Temporary() bool { return true }

var _ net.Error = (*mockTransientError)(nil)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSuccess(t *testing.T) {
	callCount := 0

	result, err := Do(context.Background(), DefaultConfig(), nil, func() (string, error) {
		callCount++
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, callCount)
}

func TestDoRetryOnTransientError(t *testing.T) {
	callCount := 0

	result, err := Do(context.Background(), fastConfig(3), nil, func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", &mockTransientError{msg: "timeout"}
		}
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, callCount)
}

func TestDoRetryOnRateLimit(t *testing.T) {
	callCount := 0

	_, err := Do(context.Background(), fastConfig(2), nil, func() (int, error) {
		callCount++
		return 0, openrouter.NewRateLimitError("rate limit exceeded", 0)
	})

	assert.ErrorIs(t, err, openrouter.ErrRateLimit)
	assert.Equal(t, 2, callCount)
}

func TestDoNoRetryOnPermanentError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"plain error", errors.New("permanent error")},
		{"authentication", openrouter.NewAuthenticationError("invalid API key", 401)},
		{"validation", openrouter.NewValidationError("invalid response data", errors.New("bad json"))},
		{"bad request", openrouter.NewAPIError("API error: bad model", 400)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callCount := 0
			_, err := Do(context.Background(), fastConfig(5), nil, func() (string, error) {
				callCount++
				return "", tt.err
			})

			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1, callCount)
		})
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	callCount := 0
	transientErr := &mockTransientError{msg: "timeout"}

	_, err := Do(context.Background(), fastConfig(3), nil, func() (string, error) {
		callCount++
		return "", transientErr
	})

	assert.Equal(t, transientErr, err)
	assert.Equal(t, 3, callCount)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	cfg := Config{
		MaxAttempts:  10,
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
		Multiplier:   1.0,
	}

	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, nil, func() (string, error) {
		callCount++
		return "", &mockTransientError{msg: "timeout"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
}

func TestDoWithDisabledRetry(t *testing.T) {
	callCount := 0

	_, err := Do(context.Background(), Disabled(), nil, func() (string, error) {
		callCount++
		return "", &mockTransientError{msg: "timeout"}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestDoStreamChannel(t *testing.T) {
	callCount := 0

	ch, err := Do(context.Background(), fastConfig(3), nil, func() (<-chan int, error) {
		callCount++
		if callCount < 2 {
			return nil, openrouter.NewAPIError("API error: upstream overloaded", 503)
		}
		out := make(chan int, 1)
		out <- 42
		close(out)
		return out, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, 42, <-ch)
}

func TestDoHonorsRetryAfterFromError(t *testing.T) {
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
	}

	callTimes := make([]time.Time, 0, 3)
	retryErr := openrouter.NewRateLimitError("rate limit exceeded", 50*time.Millisecond)

	_, err := Do(context.Background(), cfg, nil, func() (string, error) {
		callTimes = append(callTimes, time.Now())
		if len(callTimes) < 3 {
			return "", retryErr
		}
		return "success", nil
	})

	require.NoError(t, err)
	require.Len(t, callTimes, 3)
	assert.GreaterOrEqual(t, callTimes[1].Sub(callTimes[0]), 45*time.Millisecond, "should honor RetryAfter of 50ms")
}

func TestDoEmitsEvents(t *testing.T) {
	events := make(chan Event, 20)
	callCount := 0

	_, err := Do(context.Background(), fastConfig(2), events, func() (string, error) {
		callCount++
		return "", &mockTransientError{msg: "timeout"}
	})
	close(events)

	require.Error(t, err)

	var types []EventType
	for e := range events {
		assert.False(t, e.Timestamp.IsZero())
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{
		EventAttemptStart,
		EventAttemptFailed,
		EventRetrying,
		EventAttemptStart,
		EventAttemptFailed,
		EventExhausted,
	}, types)
}

func TestDoEventsDoNotBlock(t *testing.T) {
	events := make(chan Event) // unbuffered, never read

	result, err := Do(context.Background(), fastConfig(1), events, func() (string, error) {
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestRetryAfterFromError(t *testing.T) {
	assert.Equal(t, 30*time.Second, retryAfterFromError(openrouter.NewRateLimitError("slow down", 30*time.Second)))
	assert.Equal(t, time.Duration(0), retryAfterFromError(errors.New("generic error")))
	assert.Equal(t, time.Duration(0), retryAfterFromError(nil))
}
