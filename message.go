package openrouter

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
	// Name optionally identifies the author of the message.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// Usage contains token usage information for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is a single choice from a chat completion response.
type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
	// FinishReason is nil while the model has not reported why it stopped.
	FinishReason *string `json:"finish_reason"`
}

// ChatCompletion is the response from the chat completions endpoint.
type ChatCompletion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Message returns the first choice's message, or nil if there are no choices.
func (c *ChatCompletion) Message() *Message {
	if c == nil || len(c.Choices) == 0 {
		return nil
	}
	return &c.Choices[0].Message
}

// Content returns the first choice's message content, or "" if there is none.
func (c *ChatCompletion) Content() string {
	if m := c.Message(); m != nil {
		return m.Content
	}
	return ""
}

// FinishReason returns the first choice's finish reason, or "" if unset.
func (c *ChatCompletion) FinishReason() string {
	if c == nil || len(c.Choices) == 0 || c.Choices[0].FinishReason == nil {
		return ""
	}
	return *c.Choices[0].FinishReason
}

// CreatedAt returns the creation timestamp as a time.Time.
func (c *ChatCompletion) CreatedAt() time.Time {
	return time.Unix(c.Created, 0)
}
