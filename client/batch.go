package client

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/openrouter"
)

// BatchRequest is one conversation to send in a ChatBatch call.
type BatchRequest struct {
	Messages []openrouter.Message
	Options  []openrouter.Option
}

// BatchResult is the outcome of one BatchRequest.
type BatchResult struct {
	// Index is the position of the request in the input slice.
	Index      int
	Completion *openrouter.ChatCompletion
	Err        error
	Duration   time.Duration
}

// ChatBatch sends independent conversations concurrently, at most limit at
// a time (limit <= 0 means no limit). Results are returned in request order.
// A failed request is recorded in its result and does not stop the others;
// the returned error is non-nil only when ctx ends before all requests ran.
func (c *Client) ChatBatch(ctx context.Context, requests []BatchRequest, limit int) ([]BatchResult, error) {
	results := make([]BatchResult, len(requests))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, req := range requests {
		g.Go(func() error {
			results[i].Index = i
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			results[i].Completion, results[i].Err = c.Chat(ctx, req.Messages, req.Options...)
			results[i].Duration = time.Since(start)
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}
