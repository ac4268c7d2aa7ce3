package client

import (
	"context"

	"github.com/spetersoncode/openrouter/internal/retry"
)

// RetryConfig holds retry configuration parameters.
type RetryConfig = retry.Config

// RetryEvent represents an observable occurrence during retry execution.
type RetryEvent = retry.Event

// RetryEventType identifies the kind of event occurring during retry execution.
type RetryEventType = retry.EventType

// Retry event type constants.
const (
	RetryEventAttemptStart  = retry.EventAttemptStart
	RetryEventAttemptFailed = retry.EventAttemptFailed
	RetryEventRetrying      = retry.EventRetrying
	RetryEventSuccess       = retry.EventSuccess
	RetryEventExhausted     = retry.EventExhausted
)

// DefaultRetryConfig returns the default retry configuration.
//   - 10 max attempts
//   - 1 second initial delay
//   - 60 second max delay
//   - 2x exponential multiplier
//   - 10% jitter
//   - Retry-After hints honored up to 2 minutes
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

// DisabledRetryConfig returns a configuration that disables retries (single attempt).
func DisabledRetryConfig() RetryConfig {
	return retry.Disabled()
}

// IsTransientError determines if an error is transient and should be retried.
// It checks for rate limits, server errors, network timeouts, and connection issues.
func IsTransientError(err error) bool {
	return retry.IsTransient(err)
}

// withRetry runs fn under the client's retry policy, forwarding retry events.
func withRetry[T any](ctx context.Context, c *Client, operation, model string, fn func() (T, error)) (T, error) {
	retryEvents := make(chan retry.Event, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.forwardRetryEvents(retryEvents, operation, model)
	}()

	result, err := retry.Do(ctx, c.retryConfig, retryEvents, fn)

	close(retryEvents)
	<-done
	return result, err
}
