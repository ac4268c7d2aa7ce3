// Package client provides the HTTP client for the OpenRouter API.
//
// The Client provides:
//
//   - Chat completions, unary and streamed over server-sent events
//   - Model listing and credit balance lookups
//   - Automatic retries: Built-in exponential backoff for transient errors
//   - Event emission: Observable operations via channel
//   - Concurrent fan-out of independent requests with ChatBatch
//
// # Basic Usage
//
//	c, err := client.New(client.Config{
//	    APIKey:       os.Getenv("OPENROUTER_API_KEY"),
//	    DefaultModel: "openai/gpt-4o-mini",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	resp, err := c.Chat(ctx, []openrouter.Message{
//	    openrouter.UserMessage("Hello!"),
//	})
//
// # Error Mapping
//
// Every failure is an *openrouter.Error:
//
//   - 401 responses are authentication errors
//   - 429 responses are rate limit errors carrying any Retry-After delay
//   - other error statuses are API errors with the server's message
//   - transport failures are generic errors wrapping the cause
//   - bodies that do not decode are validation errors
//
// # Retry Configuration
//
// Transient failures (rate limits, 5xx, timeouts, connection resets) are
// retried with exponential backoff:
//
//	cfg := client.RetryConfig{
//	    MaxAttempts:  3,
//	    InitialDelay: 500 * time.Millisecond,
//	    MaxDelay:     10 * time.Second,
//	    Multiplier:   2.0,
//	    Jitter:       0.1,
//	}
//	c, err := client.New(client.Config{RetryConfig: &cfg})
//
// # Events
//
// Monitor operations via an event channel:
//
//	events := make(chan client.Event, 100)
//	c, err := client.New(client.Config{Events: events})
//
//	go func() {
//	    for e := range events {
//	        log.Printf("[%s] %s %s took %v", e.Type, e.Operation, e.Model, e.Duration)
//	    }
//	}()
package client
