package openrouter

// StreamChoice is a single choice from a streaming chunk.
type StreamChoice struct {
	Index int `json:"index"`
	// Delta holds the incremental message fields, usually "role" and "content".
	Delta        map[string]any `json:"delta"`
	FinishReason *string        `json:"finish_reason"`
}

// StreamChunk is one server-sent event payload of a streaming completion.
type StreamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
	// Usage is only present on the final chunk, when the server reports it.
	Usage *Usage `json:"usage,omitempty"`
}

// Content returns the text carried by the first choice's delta, or "".
func (c *StreamChunk) Content() string {
	if len(c.Choices) == 0 || c.Choices[0].Delta == nil {
		return ""
	}
	s, _ := c.Choices[0].Delta["content"].(string)
	return s
}

// IsFinished reports whether any choice carries a finish reason.
func (c *StreamChunk) IsFinished() bool {
	for _, choice := range c.Choices {
		if choice.FinishReason != nil {
			return true
		}
	}
	return false
}

// StreamEvent represents a single event in a streaming response.
type StreamEvent struct {
	// Chunk is the decoded chunk for content events.
	Chunk *StreamChunk
	// Delta contains the incremental content for this event.
	Delta string
	// Done indicates if this is the final event in the stream.
	Done bool
	// Response contains the accumulated completion when Done is true.
	Response *ChatCompletion
	// Err contains any error that occurred during streaming.
	Err error
}

// StreamAccumulator folds streaming chunks into a ChatCompletion.
// The zero value is ready to use.
type StreamAccumulator struct {
	completion ChatCompletion
	content    []byte
	role       Role
	finish     *string
}

// Add folds a chunk into the accumulated completion.
func (a *StreamAccumulator) Add(chunk *StreamChunk) {
	if a.completion.ID == "" {
		a.completion.ID = chunk.ID
		a.completion.Created = chunk.Created
	}
	if chunk.Model != "" {
		a.completion.Model = chunk.Model
	}
	if chunk.Usage != nil {
		u := *chunk.Usage
		a.completion.Usage = &u
	}
	if len(chunk.Choices) == 0 {
		return
	}
	choice := chunk.Choices[0]
	if r, ok := choice.Delta["role"].(string); ok && r != "" {
		a.role = Role(r)
	}
	a.content = append(a.content, chunk.Content()...)
	if choice.FinishReason != nil {
		reason := *choice.FinishReason
		a.finish = &reason
	}
}

// Completion returns the accumulated completion.
func (a *StreamAccumulator) Completion() *ChatCompletion {
	role := a.role
	if role == "" {
		role = RoleAssistant
	}
	c := a.completion
	c.Object = "chat.completion"
	c.Choices = []Choice{{
		Index:        0,
		Message:      Message{Role: role, Content: string(a.content)},
		FinishReason: a.finish,
	}}
	return &c
}
