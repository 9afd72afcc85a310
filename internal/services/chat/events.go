// File: internal/services/chat/events.go
package chat

import "encoding/json"

// EventType tags one frame of the response stream.
type EventType string

const (
	// EventChatCreated is emitted at most once per request, only for new
	// chats, and always before any model token.
	EventChatCreated EventType = "chat-created"
	EventTextDelta   EventType = "text-delta"
	EventToolCall    EventType = "tool-call"
	EventSources     EventType = "sources"
	EventError       EventType = "error"
	EventDone        EventType = "done"
)

// StreamEvent is one multiplexed frame: a model text delta, a tool call
// lifecycle update, or an out-of-band structured event. Fields are set
// according to Type.
type StreamEvent struct {
	Type EventType `json:"type"`

	// EventChatCreated
	ChatID string `json:"chatId,omitempty"`

	// EventTextDelta
	Delta string `json:"delta,omitempty"`

	// EventToolCall: State walks calling -> called -> result per call
	ToolName string          `json:"toolName,omitempty"`
	State    string          `json:"state,omitempty"`
	Args     json.RawMessage `json:"args,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`

	// EventSources
	Sources []string `json:"sources,omitempty"`

	// EventError: user-safe text only, detail stays in the logs
	Message string `json:"message,omitempty"`
}

// EventSink receives stream events in order. Returning an error stops the
// response; the orchestrator treats it like a client disconnect.
type EventSink func(StreamEvent) error
