package openrouter

import (
	"sort"
	"strconv"
)

// ModelInfo describes a model available through the API.
type ModelInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ContextLength int    `json:"context_length,omitempty"`
	// Pricing maps a billing dimension ("prompt", "completion", "image",
	// "request") to the USD price per unit. The API encodes prices as strings.
	Pricing     map[string]any `json:"pricing,omitempty"`
	TopProvider map[string]any `json:"top_provider,omitempty"`
}

// PromptPrice returns the USD price per prompt token.
// The second result is false when the model has no prompt pricing.
func (m ModelInfo) PromptPrice() (float64, bool) {
	return m.price("prompt")
}

// CompletionPrice returns the USD price per completion token.
// The second result is false when the model has no completion pricing.
func (m ModelInfo) CompletionPrice() (float64, bool) {
	return m.price("completion")
}

// IsFree reports whether both prompt and completion tokens cost nothing.
func (m ModelInfo) IsFree() bool {
	prompt, ok := m.PromptPrice()
	if !ok || prompt != 0 {
		return false
	}
	completion, ok := m.CompletionPrice()
	return ok && completion == 0
}

func (m ModelInfo) price(key string) (float64, bool) {
	raw, ok := m.Pricing[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// ModelList is the response from the models endpoint.
type ModelList struct {
	Data []ModelInfo `json:"data"`
}

// Find returns the model with the given ID.
func (l *ModelList) Find(id string) (ModelInfo, bool) {
	for _, m := range l.Data {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// IDs returns the sorted model identifiers.
func (l *ModelList) IDs() []string {
	ids := make([]string, len(l.Data))
	for i, m := range l.Data {
		ids[i] = m.ID
	}
	sort.Strings(ids)
	return ids
}

// Free returns the models that cost nothing to call, in listing order.
func (l *ModelList) Free() []ModelInfo {
	var free []ModelInfo
	for _, m := range l.Data {
		if m.IsFree() {
			free = append(free, m)
		}
	}
	return free
}
