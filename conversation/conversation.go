package conversation

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/openrouter"
)

// Defaults applied to each reply request.
const (
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.7
)

// Entry is a message in the history with its identifier and creation time.
type Entry struct {
	ID        string          `json:"id" yaml:"id"`
	Role      openrouter.Role `json:"role" yaml:"role"`
	Content   string          `json:"content" yaml:"content"`
	Name      string          `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// Message returns the wire form of the entry.
func (e Entry) Message() openrouter.Message {
	return openrouter.Message{Role: e.Role, Content: e.Content, Name: e.Name}
}

func newEntry(msg openrouter.Message) Entry {
	return Entry{
		ID:        openrouter.GenerateMessageID(),
		Role:      msg.Role,
		Content:   msg.Content,
		Name:      msg.Name,
		CreatedAt: time.Now().UTC(),
	}
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithMaxTokens overrides DefaultMaxTokens.
func WithMaxTokens(n int) Option {
	return func(c *Conversation) { c.maxTokens = n }
}

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float64) Option {
	return func(c *Conversation) { c.temperature = t }
}

// WithID sets the conversation identifier instead of a generated one.
func WithID(id string) Option {
	return func(c *Conversation) { c.id = id }
}

// WithRequestOptions adds options sent with every reply request,
// e.g. openrouter.WithExtra("provider", ...).
func WithRequestOptions(opts ...openrouter.Option) Option {
	return func(c *Conversation) { c.requestOpts = append(c.requestOpts, opts...) }
}

// WithLogger sets the logger used to record turns at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conversation) { c.logger = logger }
}

// Conversation is a chat history bound to a provider and model.
type Conversation struct {
	mu          sync.RWMutex
	id          string
	provider    openrouter.ChatProvider
	model       string
	maxTokens   int
	temperature float64
	requestOpts []openrouter.Option
	entries     []Entry
	logger      *slog.Logger
}

// New creates an empty conversation that replies through provider using model.
func New(provider openrouter.ChatProvider, model string, opts ...Option) *Conversation {
	c := &Conversation{
		id:          uuid.New().String(),
		provider:    provider,
		model:       model,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Model returns the model replies are requested from.
func (c *Conversation) Model() string { return c.model }

// SetSystem replaces any system messages with a single one at the start.
func (c *Conversation) SetSystem(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = slices.DeleteFunc(c.entries, func(e Entry) bool {
		return e.Role == openrouter.RoleSystem
	})
	c.entries = slices.Insert(c.entries, 0, newEntry(openrouter.SystemMessage(content)))
	c.logger.Debug("system message set", "conversation", c.id)
}

// AddUser appends a user message.
func (c *Conversation) AddUser(content string) {
	c.append(openrouter.UserMessage(content))
}

func (c *Conversation) append(msg openrouter.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, newEntry(msg))
	c.logger.Debug("message added", "conversation", c.id, "role", msg.Role)
}

// Reply requests a completion for the current history and appends the
// assistant message. It returns "" without changing the history when the
// response has no choices.
func (c *Conversation) Reply(ctx context.Context) (string, error) {
	messages := c.Messages()
	if len(messages) == 0 {
		return "", openrouter.ErrEmptyInput
	}

	opts := make([]openrouter.Option, 0, len(c.requestOpts)+3)
	opts = append(opts, c.requestOpts...)
	opts = append(opts,
		openrouter.WithModel(c.model),
		openrouter.WithMaxTokens(c.maxTokens),
		openrouter.WithTemperature(c.temperature),
	)

	resp, err := c.provider.Chat(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	msg := resp.Message()
	if msg == nil {
		return "", nil
	}
	c.append(*msg)
	return msg.Content, nil
}

// Send adds a user message and returns the assistant's reply.
func (c *Conversation) Send(ctx context.Context, input string) (string, error) {
	c.AddUser(input)
	return c.Reply(ctx)
}

// Summary describes the current state of a conversation.
type Summary struct {
	ConversationID    string `json:"conversation_id" yaml:"conversation_id"`
	MessageCount      int    `json:"message_count" yaml:"message_count"`
	Model             string `json:"model" yaml:"model"`
	HasSystemMessage  bool   `json:"has_system_message" yaml:"has_system_message"`
	UserMessages      int    `json:"user_messages" yaml:"user_messages"`
	AssistantMessages int    `json:"assistant_messages" yaml:"assistant_messages"`
}

// Summary counts the messages in the history by role.
func (c *Conversation) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summaryLocked()
}

// summaryLocked requires c.mu to be held.
func (c *Conversation) summaryLocked() Summary {
	s := Summary{
		ConversationID: c.id,
		MessageCount:   len(c.entries),
		Model:          c.model,
	}
	for _, e := range c.entries {
		switch e.Role {
		case openrouter.RoleSystem:
			s.HasSystemMessage = true
		case openrouter.RoleUser:
			s.UserMessages++
		case openrouter.RoleAssistant:
			s.AssistantMessages++
		}
	}
	return s
}

// Clear empties the history, keeping system messages when keepSystem is set.
func (c *Conversation) Clear(keepSystem bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !keepSystem {
		c.entries = nil
		return
	}
	c.entries = slices.DeleteFunc(c.entries, func(e Entry) bool {
		return e.Role != openrouter.RoleSystem
	})
}

// Messages returns a copy of the history in wire form.
func (c *Conversation) Messages() []openrouter.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msgs := make([]openrouter.Message, len(c.entries))
	for i, e := range c.entries {
		msgs[i] = e.Message()
	}
	return msgs
}

// Entries returns a copy of the history with identifiers and timestamps.
func (c *Conversation) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries)
}
