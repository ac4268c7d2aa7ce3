package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/openrouter"
)

// Tool names.
const (
	ToolChat       = "chat"
	ToolListModels = "list_models"
	ToolGetBalance = "get_balance"
)

func chatTool() mcp.Tool {
	return mcp.NewTool(ToolChat,
		mcp.WithDescription("Send a prompt to an OpenRouter model and return its reply"),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("User message to send")),
		mcp.WithString("system", mcp.Description("Optional system message")),
		mcp.WithString("model", mcp.Description("Model ID, e.g. openai/gpt-4o-mini")),
		mcp.WithNumber("max_tokens", mcp.Description("Maximum tokens to generate")),
		mcp.WithNumber("temperature", mcp.Description("Sampling temperature, 0 to 2")),
	)
}

func listModelsTool() mcp.Tool {
	return mcp.NewTool(ToolListModels,
		mcp.WithDescription("List models available through OpenRouter"),
		mcp.WithBoolean("free_only", mcp.Description("Only include models that cost nothing")),
	)
}

func balanceTool() mcp.Tool {
	return mcp.NewTool(ToolGetBalance,
		mcp.WithDescription("Report purchased, used and remaining OpenRouter credits"),
	)
}

type handlers struct {
	api          API
	defaultModel string
}

func (h *handlers) chat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var messages []openrouter.Message
	if system := req.GetString("system", ""); system != "" {
		messages = append(messages, openrouter.SystemMessage(system))
	}
	messages = append(messages, openrouter.UserMessage(prompt))

	var opts []openrouter.Option
	model := req.GetString("model", h.defaultModel)
	if model != "" {
		opts = append(opts, openrouter.WithModel(model))
	}
	if n := req.GetInt("max_tokens", 0); n > 0 {
		opts = append(opts, openrouter.WithMaxTokens(n))
	}
	if _, ok := req.GetArguments()["temperature"]; ok {
		opts = append(opts, openrouter.WithTemperature(req.GetFloat("temperature", 0)))
	}

	resp, err := h.api.Chat(ctx, messages, opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resp.Content()), nil
}

// modelSummary is the per-model entry returned by list_models.
type modelSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ContextLength   int      `json:"context_length,omitempty"`
	PromptPrice     *float64 `json:"prompt_price,omitempty"`
	CompletionPrice *float64 `json:"completion_price,omitempty"`
}

func summarize(m openrouter.ModelInfo) modelSummary {
	s := modelSummary{ID: m.ID, Name: m.Name, ContextLength: m.ContextLength}
	if p, ok := m.PromptPrice(); ok {
		s.PromptPrice = &p
	}
	if p, ok := m.CompletionPrice(); ok {
		s.CompletionPrice = &p
	}
	return s
}

func (h *handlers) listModels(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.api.Models(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	models := list.Data
	if req.GetBool("free_only", false) {
		models = list.Free()
	}
	out := make([]modelSummary, len(models))
	for i, m := range models {
		out[i] = summarize(m)
	}
	return jsonResult(out)
}

func (h *handlers) balance(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	credits, err := h.api.Balance(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]float64{
		"total_credits": credits.TotalPurchased(),
		"total_usage":   credits.TotalUsed(),
		"balance":       credits.Balance(),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
