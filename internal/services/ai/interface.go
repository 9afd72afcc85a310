// File: internal/services/ai/interface.go
package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// StreamResult is the outcome of one streamed model invocation: the text
// produced so far plus any tool calls the model requested instead of (or
// before) finishing.
type StreamResult struct {
	Content      string
	ToolCalls    []openai.ToolCall
	FinishReason openai.FinishReason
}

// CompletionProvider handles streamed chat completions with tool support.
// onDelta is invoked for every text fragment as it arrives; returning an
// error from it stops the stream.
type CompletionProvider interface {
	StreamChat(ctx context.Context, model string, messages []openai.ChatCompletionMessage, tools []openai.Tool, onDelta func(string) error) (*StreamResult, error)
	HealthCheck(ctx context.Context) error
}
