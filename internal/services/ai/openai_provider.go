// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

var _ CompletionProvider = (*OpenAIProvider)(nil)

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// StreamChat runs one streamed chat completion. Text deltas are forwarded
// to onDelta as they arrive; tool call fragments are accumulated across
// chunks and returned whole once the stream ends.
func (p *OpenAIProvider) StreamChat(
	ctx context.Context,
	model string,
	messages []openai.ChatCompletionMessage,
	tools []openai.Tool,
	onDelta func(string) error,
) (*StreamResult, error) {
	// Config.Timeout bounds the whole completion, on top of whatever
	// tighter deadline the caller's context carries.
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Tools:       tools,
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
	})
	if err != nil {
		return nil, NewProviderError("streaming", "failed to create stream", err)
	}
	defer stream.Close()

	result := &StreamResult{}
	var content []byte

	for {
		response, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				result.Content = string(content)
				return result, nil
			}
			return nil, NewProviderError("streaming", "stream receive error", err)
		}

		if len(response.Choices) == 0 {
			continue
		}
		choice := response.Choices[0]

		if choice.Delta.Content != "" {
			content = append(content, choice.Delta.Content...)
			if onDelta != nil {
				if cbErr := onDelta(choice.Delta.Content); cbErr != nil {
					return nil, cbErr
				}
			}
		}

		for _, tc := range choice.Delta.ToolCalls {
			result.ToolCalls = mergeToolCallDelta(result.ToolCalls, tc)
		}

		if choice.FinishReason != "" {
			result.FinishReason = choice.FinishReason
		}
	}
}

// mergeToolCallDelta folds one streamed tool call fragment into the
// accumulated list. The provider sends the name and id up front and the
// argument JSON in pieces, all correlated by index.
func mergeToolCallDelta(acc []openai.ToolCall, delta openai.ToolCall) []openai.ToolCall {
	idx := len(acc)
	if delta.Index != nil {
		idx = *delta.Index
	}
	for len(acc) <= idx {
		acc = append(acc, openai.ToolCall{})
	}

	call := &acc[idx]
	if delta.ID != "" {
		call.ID = delta.ID
	}
	if delta.Type != "" {
		call.Type = delta.Type
	}
	if delta.Function.Name != "" {
		call.Function.Name = delta.Function.Name
	}
	call.Function.Arguments += delta.Function.Arguments
	return acc
}

// HealthCheck pings the models endpoint to verify the upstream API is
// reachable and the key is accepted.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		return NewProviderError("health_check", "model API unreachable", err)
	}
	return nil
}
