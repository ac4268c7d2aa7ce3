// Command openrouter is a command-line client for the OpenRouter API.
//
// Usage:
//
//	openrouter chat "What is the capital of France?"
//	openrouter stream --model openai/gpt-4o-mini "Tell me a story"
//	openrouter chat --session tutor.yaml "What is calculus?"
//	openrouter batch --concurrency 4 prompts.txt
//	openrouter models --free
//	openrouter balance
//
// Configuration is read from the environment (and a .env file):
// OPENROUTER_API_KEY, OPENROUTER_BASE_URL, OPENROUTER_MODEL,
// OPENROUTER_TIMEOUT, OPENROUTER_LOG_LEVEL, OPENROUTER_APP_NAME and
// OPENROUTER_APP_URL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
