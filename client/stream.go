package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spetersoncode/openrouter"
	"github.com/spetersoncode/openrouter/internal/sse"
)

// ChatStream sends a conversation and returns a channel of streaming events.
// Error statuses are returned before any channel is created, and
// establishing the connection is retried on transient errors. Chunks that
// fail to decode are skipped. The channel is closed after the final event
// (Done with the accumulated completion, or Err); cancelling ctx stops the
// stream and closes the channel.
func (c *Client) ChatStream(ctx context.Context, messages []openrouter.Message, opts ...openrouter.Option) (<-chan openrouter.StreamEvent, error) {
	if len(messages) == 0 {
		return nil, openrouter.ErrEmptyInput
	}
	options, err := c.resolve("chat_stream", opts, "")
	if err != nil {
		return nil, err
	}
	body := buildChatBody(messages, options, true)

	start := c.begin(ctx, "chat_stream", options.Model)
	resp, err := withRetry(ctx, c, "chat_stream", options.Model, func() (*http.Response, error) {
		req, err := c.newRequest(ctx, http.MethodPost, "/chat/completions", body)
		if err != nil {
			return nil, openrouter.NewRequestError("streaming request failed", err)
		}
		req.Header.Set("Accept", "text/event-stream")
		return c.send(req)
	})
	if err != nil {
		c.finish(ctx, "chat_stream", options.Model, start, nil, err)
		return nil, err
	}

	ch := make(chan openrouter.StreamEvent)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		completion, err := c.readStream(ctx, resp, ch)
		if err != nil {
			c.finish(ctx, "chat_stream", options.Model, start, nil, err)
			send(ctx, ch, openrouter.StreamEvent{Err: err})
			return
		}
		if completion == nil {
			// Caller went away.
			c.finish(ctx, "chat_stream", options.Model, start, nil, ctx.Err())
			return
		}
		c.finish(ctx, "chat_stream", options.Model, start, completion.Usage, nil)
		send(ctx, ch, openrouter.StreamEvent{Done: true, Response: completion})
	}()

	return ch, nil
}

// readStream decodes chunks from resp onto ch. It returns the accumulated
// completion, or nil with a nil error when ctx ended the stream.
func (c *Client) readStream(ctx context.Context, resp *http.Response, ch chan<- openrouter.StreamEvent) (*openrouter.ChatCompletion, error) {
	dec := sse.NewDecoder(resp.Body)
	var acc openrouter.StreamAccumulator

	for dec.Next() {
		data := []byte(dec.Data())

		// Providers that fail mid-generation report it as an error payload.
		if apiErr := errorFromEnvelope(data); apiErr != nil {
			return nil, apiErr
		}

		var chunk openrouter.StreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			c.logger.DebugContext(ctx, "skipping undecodable stream chunk", "error", err)
			continue
		}
		acc.Add(&chunk)

		if !send(ctx, ch, openrouter.StreamEvent{Chunk: &chunk, Delta: chunk.Content()}) {
			return nil, nil
		}
	}

	if err := dec.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, openrouter.NewRequestError("streaming request failed", err)
	}
	if ctx.Err() != nil {
		return nil, nil
	}
	return acc.Completion(), nil
}

// send delivers ev unless ctx is done first.
func send(ctx context.Context, ch chan<- openrouter.StreamEvent, ev openrouter.StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// CompleteStream streams the reply to a single user prompt as text deltas.
// Empty deltas are dropped. The error channel receives at most one error and
// both channels are closed when the stream ends. A stream truncated by ctx
// reports ctx.Err().
func (c *Client) CompleteStream(ctx context.Context, prompt string, opts ...openrouter.Option) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	options, err := c.resolve("complete_stream", opts, DefaultCompletionModel)
	if err != nil {
		errc <- err
		close(out)
		close(errc)
		return out, errc
	}
	opts = append(opts[:len(opts):len(opts)], openrouter.WithModel(options.Model))

	stream, err := c.ChatStream(ctx, []openrouter.Message{openrouter.UserMessage(prompt)}, opts...)
	if err != nil {
		errc <- err
		close(out)
		close(errc)
		return out, errc
	}

	go func() {
		defer close(errc)
		defer close(out)
		done := false
		for event := range stream {
			if event.Err != nil {
				errc <- event.Err
				return
			}
			if event.Done {
				done = true
			}
			if event.Delta == "" {
				continue
			}
			select {
			case out <- event.Delta:
			case <-ctx.Done():
				errc <- ctx.Err()
				// Drain so the stream goroutine can exit.
				for range stream {
				}
				return
			}
		}
		// A stream closed without its final event was cut short by ctx.
		if !done {
			if err := ctx.Err(); err != nil {
				errc <- err
			}
		}
	}()

	return out, errc
}
