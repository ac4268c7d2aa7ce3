// Package openaicompat implements [openrouter.ChatProvider] on top of the
// official OpenAI Go SDK, pointed at the OpenRouter API.
//
// It is an alternative to the client package for callers already invested in
// openai-go request options; both report failures with the same
// [openrouter.Error] kinds.
package openaicompat
