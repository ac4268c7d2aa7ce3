package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRecord is returned when a saved conversation lacks an ID.
var ErrInvalidRecord = errors.New("conversation record has no conversation_id")

// Record is the persisted form of a conversation.
type Record struct {
	Metadata Summary `json:"metadata" yaml:"metadata"`
	Messages []Entry `json:"messages" yaml:"messages"`
}

// Snapshot returns the conversation as a Record. The metadata and messages
// are taken together, so the counts always match the history.
func (c *Conversation) Snapshot() Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Record{Metadata: c.summaryLocked(), Messages: slices.Clone(c.entries)}
}

// Restore replaces the identifier and history with those in r.
// The model and sampling settings of c are kept.
func (c *Conversation) Restore(r Record) error {
	if r.Metadata.ConversationID == "" {
		return ErrInvalidRecord
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = r.Metadata.ConversationID
	c.entries = append([]Entry(nil), r.Messages...)
	c.logger.Debug("conversation restored", "conversation", c.id, "messages", len(c.entries))
	return nil
}

// DefaultFilename is the file Save writes when given an empty path.
func (c *Conversation) DefaultFilename() string {
	return "conversation_" + c.ID() + ".json"
}

// Save writes the conversation to path, as YAML for .yaml and .yml
// extensions and as indented JSON otherwise. An empty path means
// DefaultFilename. It returns the path written.
func (c *Conversation) Save(path string) (string, error) {
	if path == "" {
		path = c.DefaultFilename()
	}
	data, err := marshalRecord(path, c.Snapshot())
	if err != nil {
		return "", fmt.Errorf("encode conversation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save conversation: %w", err)
	}
	return path, nil
}

// Load replaces the conversation with the one saved at path.
func (c *Conversation) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	var r Record
	if err := unmarshalRecord(path, data, &r); err != nil {
		return fmt.Errorf("decode conversation %s: %w", path, err)
	}
	return c.Restore(r)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func marshalRecord(path string, r Record) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(r)
	}
	return json.MarshalIndent(r, "", "  ")
}

func unmarshalRecord(path string, data []byte, r *Record) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, r)
	}
	return json.Unmarshal(data, r)
}
