// Package openrouter provides Go types and a client for the OpenRouter API.
//
// OpenRouter exposes hundreds of hosted models behind a single
// OpenAI-compatible HTTP API. This package holds the wire types shared by
// every backend: chat messages, completions, model metadata, account credits
// and streaming chunks, plus the error taxonomy and request options.
//
// Use the [github.com/spetersoncode/openrouter/client] package as the entry
// point for API access.
//
// # Basic Usage
//
//	c, err := client.New(client.Config{
//	    APIKey: os.Getenv("OPENROUTER_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	messages := []openrouter.Message{
//	    openrouter.UserMessage("What is the capital of France?"),
//	}
//
//	resp, err := c.Chat(ctx, messages, openrouter.WithModel("openai/gpt-4o-mini"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content())
//
// # Streaming Responses
//
// ChatStream returns a channel of events. The channel is closed after the
// final event, which has Done set and carries the accumulated completion:
//
//	stream, err := c.ChatStream(ctx, messages, openrouter.WithModel(model))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range stream {
//	    if event.Err != nil {
//	        log.Fatal(event.Err)
//	    }
//	    fmt.Print(event.Delta)
//	}
//
// # Errors
//
// Every error returned by the client is an [*Error]. Use errors.Is with the
// kind sentinels to branch on the failure:
//
//	if errors.Is(err, openrouter.ErrRateLimit) {
//	    time.Sleep(openrouter.RetryAfterOf(err))
//	}
//
// # Account Information
//
//	credits, err := c.Balance(ctx)
//	fmt.Printf("remaining: $%.2f\n", credits.Balance())
package openrouter
