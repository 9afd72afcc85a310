// File: internal/domain/message.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Part types for the MessagePart tagged union.
const (
	PartTypeText           = "text"
	PartTypeToolInvocation = "tool-invocation"
)

// Tool invocation lifecycle states.
const (
	ToolStateCalling = "calling"
	ToolStateCalled  = "called"
	ToolStateResult  = "result"
)

// MessagePart is one ordered fragment of a message: either plain text or
// a tool invocation tracked through its calling/called/result lifecycle.
// Which fields are set depends on Type.
type MessagePart struct {
	Type string `json:"type"`

	// Type == "text"
	Text string `json:"text,omitempty"`

	// Type == "tool-invocation"
	ToolName string          `json:"toolName,omitempty"`
	Args     json.RawMessage `json:"args,omitempty"`
	State    string          `json:"state,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// MessageParts is stored as a single JSON column; order is render order.
type MessageParts []MessagePart

func (p MessageParts) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal message parts: %w", err)
	}
	return string(b), nil
}

func (p *MessageParts) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type %T for message parts", value)
	}
}

// Message represents a single message within a chat. Messages are immutable
// once persisted; each turn rewrites the chat's full message list, with
// Position as the authoritative ordering (zero-based).
type Message struct {
	ID        uint         `json:"-" gorm:"primarykey"`
	ChatID    string       `json:"chat_id" gorm:"size:36;not null;index"`
	Role      string       `json:"role" gorm:"not null"`
	Content   string       `json:"content"` // flat text, kept alongside parts
	Parts     MessageParts `json:"parts" gorm:"type:text"`
	Position  int          `json:"position" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at"`
}

// TextContent returns the message's flat text, falling back to the
// concatenated text parts when Content is empty.
func (m *Message) TextContent() string {
	if m.Content != "" {
		return m.Content
	}
	var out string
	for _, part := range m.Parts {
		if part.Type == PartTypeText {
			out += part.Text
		}
	}
	return out
}
