package openaicompat

import (
	"github.com/openai/openai-go"

	"github.com/spetersoncode/openrouter"
)

func convertMessages(messages []openrouter.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case openrouter.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case openrouter.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func convertUsage(u openai.CompletionUsage) *openrouter.Usage {
	if u.TotalTokens == 0 && u.PromptTokens == 0 && u.CompletionTokens == 0 {
		return nil
	}
	return &openrouter.Usage{
		PromptTokens:     int(u.PromptTokens),
		CompletionTokens: int(u.CompletionTokens),
		TotalTokens:      int(u.TotalTokens),
	}
}

func finishReason(reason string) *string {
	if reason == "" {
		return nil
	}
	return &reason
}

func convertCompletion(resp *openai.ChatCompletion) *openrouter.ChatCompletion {
	out := &openrouter.ChatCompletion{
		ID:      resp.ID,
		Object:  "chat.completion",
		Created: resp.Created,
		Model:   resp.Model,
		Choices: make([]openrouter.Choice, len(resp.Choices)),
		Usage:   convertUsage(resp.Usage),
	}
	for i, choice := range resp.Choices {
		out.Choices[i] = openrouter.Choice{
			Index:        int(choice.Index),
			Message:      openrouter.AssistantMessage(choice.Message.Content),
			FinishReason: finishReason(choice.FinishReason),
		}
	}
	return out
}

func convertChunk(chunk openai.ChatCompletionChunk) *openrouter.StreamChunk {
	out := &openrouter.StreamChunk{
		ID:      chunk.ID,
		Object:  "chat.completion.chunk",
		Created: chunk.Created,
		Model:   chunk.Model,
		Choices: make([]openrouter.StreamChoice, len(chunk.Choices)),
		Usage:   convertUsage(chunk.Usage),
	}
	for i, choice := range chunk.Choices {
		delta := map[string]any{"content": choice.Delta.Content}
		if choice.Delta.Role != "" {
			delta["role"] = choice.Delta.Role
		}
		out.Choices[i] = openrouter.StreamChoice{
			Index:        int(choice.Index),
			Delta:        delta,
			FinishReason: finishReason(choice.FinishReason),
		}
	}
	return out
}
