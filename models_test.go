package openrouter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelsJSON = `{"data": [
	{
		"id": "openai/gpt-4o",
		"name": "OpenAI: GPT-4o",
		"description": "Flagship model",
		"context_length": 128000,
		"pricing": {"prompt": "0.0000025", "completion": "0.00001", "image": "0.003613"},
		"top_provider": {"max_completion_tokens": 16384, "is_moderated": true}
	},
	{
		"id": "meta-llama/llama-3.2-3b-instruct:free",
		"name": "Meta: Llama 3.2 3B Instruct (free)",
		"pricing": {"prompt": "0", "completion": "0"}
	},
	{
		"id": "anthropic/claude-3.5-sonnet",
		"name": "Anthropic: Claude 3.5 Sonnet"
	}
]}`

func decodeModels(t *testing.T) *ModelList {
	t.Helper()
	var list ModelList
	require.NoError(t, json.Unmarshal([]byte(modelsJSON), &list))
	return &list
}

func TestModelListDecode(t *testing.T) {
	list := decodeModels(t)
	require.Len(t, list.Data, 3)

	gpt := list.Data[0]
	assert.Equal(t, "Flagship model", gpt.Description)
	assert.Equal(t, 128000, gpt.ContextLength)
	assert.Equal(t, true, gpt.TopProvider["is_moderated"])

	sonnet := list.Data[2]
	assert.Zero(t, sonnet.ContextLength)
	assert.Nil(t, sonnet.Pricing)
}

func TestModelInfoPrices(t *testing.T) {
	list := decodeModels(t)

	price, ok := list.Data[0].PromptPrice()
	require.True(t, ok)
	assert.InDelta(t, 0.0000025, price, 1e-12)

	price, ok = list.Data[0].CompletionPrice()
	require.True(t, ok)
	assert.InDelta(t, 0.00001, price, 1e-12)

	_, ok = list.Data[2].PromptPrice()
	assert.False(t, ok)

	numeric := ModelInfo{Pricing: map[string]any{"prompt": 0.5, "completion": 2}}
	price, ok = numeric.PromptPrice()
	require.True(t, ok)
	assert.Equal(t, 0.5, price)
	price, ok = numeric.CompletionPrice()
	require.True(t, ok)
	assert.Equal(t, 2.0, price)

	garbage := ModelInfo{Pricing: map[string]any{"prompt": "n/a", "completion": true}}
	_, ok = garbage.PromptPrice()
	assert.False(t, ok)
	_, ok = garbage.CompletionPrice()
	assert.False(t, ok)
}

func TestModelInfoIsFree(t *testing.T) {
	list := decodeModels(t)

	assert.False(t, list.Data[0].IsFree())
	assert.True(t, list.Data[1].IsFree())
	assert.False(t, list.Data[2].IsFree(), "missing pricing is not free")
	assert.False(t, ModelInfo{Pricing: map[string]any{"prompt": "0"}}.IsFree())
}

func TestModelListHelpers(t *testing.T) {
	list := decodeModels(t)

	m, ok := list.Find("anthropic/claude-3.5-sonnet")
	require.True(t, ok)
	assert.Equal(t, "Anthropic: Claude 3.5 Sonnet", m.Name)

	_, ok = list.Find("missing/model")
	assert.False(t, ok)

	assert.Equal(t, []string{
		"anthropic/claude-3.5-sonnet",
		"meta-llama/llama-3.2-3b-instruct:free",
		"openai/gpt-4o",
	}, list.IDs())

	free := list.Free()
	require.Len(t, free, 1)
	assert.Equal(t, "meta-llama/llama-3.2-3b-instruct:free", free[0].ID)

	assert.Empty(t, (&ModelList{}).IDs())
	assert.Nil(t, (&ModelList{}).Free())
}
