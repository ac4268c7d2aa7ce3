package client

import (
	"context"
	"time"

	"github.com/spetersoncode/openrouter"
	"github.com/spetersoncode/openrouter/internal/retry"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventRequestStart fires before an API request begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after an API request completes successfully.
	// For streams it fires once the final event has been delivered.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when an API request fails.
	EventRequestError EventType = "request_error"

	// EventRetry fires when a retry event occurs (forwarded from the retry loop).
	EventRetry EventType = "retry"
)

// Event represents an observable occurrence during client operations.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// Operation identifies the API operation ("chat", "chat_stream", "models", "credits").
	Operation string

	// Model is the model name being used, empty for account operations.
	Model string

	// Duration is the elapsed time for completed requests.
	Duration time.Duration

	// Usage contains token usage information when the server reported it.
	Usage *openrouter.Usage

	// Error contains the error for EventRequestError.
	Error error

	// RetryEvent contains the underlying retry event for EventRetry.
	RetryEvent *RetryEvent

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
		// Channel full - don't block
	}
}

// observe wraps a unary operation with start/complete/error events and logging.
func (c *Client) observe(ctx context.Context, operation, model string, fn func() (*openrouter.Usage, error)) error {
	start := c.begin(ctx, operation, model)
	usage, err := fn()
	c.finish(ctx, operation, model, start, usage, err)
	return err
}

func (c *Client) begin(ctx context.Context, operation, model string) time.Time {
	c.logger.DebugContext(ctx, "request started", "operation", operation, "model", model)
	emit(c.events, Event{Type: EventRequestStart, Operation: operation, Model: model})
	return time.Now()
}

func (c *Client) finish(ctx context.Context, operation, model string, start time.Time, usage *openrouter.Usage, err error) {
	elapsed := time.Since(start)
	if err != nil {
		c.logger.WarnContext(ctx, "request failed",
			"operation", operation,
			"model", model,
			"duration", elapsed,
			"error", err,
		)
		emit(c.events, Event{
			Type:      EventRequestError,
			Operation: operation,
			Model:     model,
			Duration:  elapsed,
			Error:     err,
		})
		return
	}

	c.logger.DebugContext(ctx, "request completed",
		"operation", operation,
		"model", model,
		"duration", elapsed,
	)
	emit(c.events, Event{
		Type:      EventRequestComplete,
		Operation: operation,
		Model:     model,
		Duration:  elapsed,
		Usage:     usage,
	})
}

// forwardRetryEvents logs retry activity and republishes it as client events.
func (c *Client) forwardRetryEvents(retryEvents <-chan retry.Event, operation, model string) {
	for re := range retryEvents {
		if re.Type == retry.EventRetrying {
			c.logger.Warn("retrying request",
				"operation", operation,
				"model", model,
				"attempt", re.Attempt,
				"max_attempts", re.MaxAttempts,
				"delay", re.Delay,
			)
		}
		reCopy := re
		emit(c.events, Event{
			Type:       EventRetry,
			Operation:  operation,
			Model:      model,
			RetryEvent: &reCopy,
		})
	}
}
