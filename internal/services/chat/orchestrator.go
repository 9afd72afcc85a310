// File: internal/services/chat/orchestrator.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/mkarimi-dev/go-askweb/internal/domain"
	"github.com/mkarimi-dev/go-askweb/internal/repository/conversation"
	"github.com/mkarimi-dev/go-askweb/internal/services/ai"
)

// AIProvider defines the interface for streamed model invocations.
type AIProvider interface {
	StreamChat(ctx context.Context, model string, messages []openai.ChatCompletionMessage, tools []openai.Tool, onDelta func(string) error) (*ai.StreamResult, error)
}

// ChatRequest is one inbound turn: the full prior conversation plus the
// new user message, and whether this starts a new chat.
type ChatRequest struct {
	ChatID    string
	IsNewChat bool
	Messages  []domain.Message
}

// StreamingService drives the tool-augmented response loop: it runs the
// model through a bounded number of reasoning steps, executes requested
// tool calls between steps, streams every token and tool lifecycle event
// to the caller, and persists the finished turn.
type StreamingService struct {
	config          *Config
	store           conversation.ConversationRepository
	aiService       AIProvider
	tools           *ToolExecutor
	sourceExtractor *SourceExtractor
	logger          Logger
}

func NewStreamingService(
	config *Config,
	store conversation.ConversationRepository,
	aiService AIProvider,
	tools *ToolExecutor,
	sourceExtractor *SourceExtractor,
	logger Logger,
) (*StreamingService, error) {
	if err := config.Validate(); err != nil {
		return nil, &ChatError{Type: ErrTypeConfig, Operation: "config", Message: err.Error()}
	}
	return &StreamingService{
		config:          config,
		store:           store,
		aiService:       aiService,
		tools:           tools,
		sourceExtractor: sourceExtractor,
		logger:          logger,
	}, nil
}

// StreamChatResponse handles one turn end to end. Events are delivered to
// emit in order; the final snapshot write happens on a detached context so
// a finished answer survives a client disconnect.
func (s *StreamingService) StreamChatResponse(ctx context.Context, userID uint, req ChatRequest, emit EventSink) error {
	if len(req.Messages) == 0 {
		return NewValidationError("stream", "message list is empty")
	}

	chatID := req.ChatID
	var title string

	if req.IsNewChat {
		if chatID == "" {
			chatID = uuid.NewString()
		}
		title = deriveTitle(req.Messages, s.config.TitleMaxRunes)
		// Out-of-band frame, always ahead of any model token.
		if err := emit(StreamEvent{Type: EventChatCreated, ChatID: chatID}); err != nil {
			return err
		}
	} else {
		chat, _, err := s.store.Get(ctx, userID, chatID)
		if err != nil {
			if errors.Is(err, conversation.ErrNotFound) {
				return NewNotFoundError(userID, chatID)
			}
			return &ChatError{Type: ErrTypePersistence, Operation: "load_chat", Message: "failed to load chat", Cause: err}
		}
		title = chat.Title
	}

	s.logger.Info("starting stream chat", "user_id", userID, "chat_id", chatID, "is_new", req.IsNewChat)

	modelMessages := buildModelMessages(req.Messages)
	toolDefs := ToolDefinitions()

	var fullReply strings.Builder
	var parts domain.MessageParts

	for step := 0; step < s.config.MaxToolSteps; step++ {
		stepCtx, stepCancel := context.WithTimeout(ctx, s.config.StepTimeout)
		result, err := s.aiService.StreamChat(stepCtx, s.config.StreamModel, modelMessages, toolDefs, func(token string) error {
			fullReply.WriteString(token)
			return emit(StreamEvent{Type: EventTextDelta, Delta: token})
		})
		stepCancel()
		if err != nil {
			s.logger.Error("model stream failed", "step", step, "error", err)
			return NewStreamingError("model_stream", "AI streaming failed", err)
		}

		// Each step's text becomes its own part, ahead of that step's tool
		// invocations, so the stored parts replay in the order the client
		// rendered them.
		if result.Content != "" {
			parts = append(parts, domain.MessagePart{Type: domain.PartTypeText, Text: result.Content})
		}

		// The model's own stop decision ends the loop.
		if len(result.ToolCalls) == 0 {
			break
		}

		modelMessages = append(modelMessages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})

		stepParts, toolMessages, err := s.runToolCalls(ctx, result.ToolCalls, emit)
		if err != nil {
			return err
		}
		parts = append(parts, stepParts...)
		modelMessages = append(modelMessages, toolMessages...)

		if step == s.config.MaxToolSteps-1 {
			// Soft cutoff: whatever text has streamed so far is the answer.
			s.logger.Warn("step ceiling reached", "chat_id", chatID, "steps", s.config.MaxToolSteps)
		}
	}

	finalText := fullReply.String()

	assistant := domain.Message{
		ChatID:  chatID,
		Role:    domain.RoleAssistant,
		Content: finalText,
		Parts:   parts,
	}

	// The turn is committed at this point; the write runs detached so an
	// abort between here and completion cannot lose it.
	snapshot := append(append([]domain.Message{}, req.Messages...), assistant)
	go s.saveConversation(userID, chatID, title, snapshot)

	if s.config.EnableSources {
		if sources := s.sourceExtractor.ExtractSources(finalText); len(sources) > 0 {
			if err := emit(StreamEvent{Type: EventSources, Sources: sources}); err != nil {
				return err
			}
		}
	}

	s.logger.Info("stream chat completed", "chat_id", chatID, "response_length", len(finalText))
	return emit(StreamEvent{Type: EventDone})
}

// runToolCalls executes every tool call the model issued in one step.
// Calls run concurrently, each result is surfaced the moment it lands, and
// the returned parts and tool messages follow the model's request order. A
// tool failure never propagates: it becomes a structured error payload for
// the model to react to.
func (s *StreamingService) runToolCalls(ctx context.Context, calls []openai.ToolCall, emit EventSink) (domain.MessageParts, []openai.ChatCompletionMessage, error) {
	toolCtx, cancel := context.WithTimeout(ctx, s.config.ToolTimeout)
	defer cancel()

	var emitMu sync.Mutex
	safeEmit := func(ev StreamEvent) error {
		emitMu.Lock()
		defer emitMu.Unlock()
		return emit(ev)
	}

	// Announce every call up front, in request order.
	for _, call := range calls {
		if err := safeEmit(StreamEvent{
			Type:     EventToolCall,
			ToolName: call.Function.Name,
			State:    domain.ToolStateCalling,
			Args:     json.RawMessage(call.Function.Arguments),
		}); err != nil {
			return nil, nil, err
		}
	}

	payloads := make([]json.RawMessage, len(calls))
	g := new(errgroup.Group)

	for i := range calls {
		i := i
		call := calls[i]
		g.Go(func() error {
			args := json.RawMessage(call.Function.Arguments)

			payload, execErr := s.tools.Execute(toolCtx, call.Function.Name, args)
			if execErr != nil {
				s.logger.Warn("tool execution failed", "tool", call.Function.Name, "error", execErr)
				payload, _ = json.Marshal(map[string]string{"error": execErr.Error()})
			}
			payloads[i] = payload

			if err := safeEmit(StreamEvent{
				Type:     EventToolCall,
				ToolName: call.Function.Name,
				State:    domain.ToolStateCalled,
				Args:     args,
			}); err != nil {
				return err
			}
			return safeEmit(StreamEvent{
				Type:     EventToolCall,
				ToolName: call.Function.Name,
				State:    domain.ToolStateResult,
				Args:     args,
				Result:   payload,
			})
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	parts := make(domain.MessageParts, 0, len(calls))
	toolMessages := make([]openai.ChatCompletionMessage, 0, len(calls))
	for i, call := range calls {
		parts = append(parts, domain.MessagePart{
			Type:     domain.PartTypeToolInvocation,
			ToolName: call.Function.Name,
			Args:     json.RawMessage(call.Function.Arguments),
			State:    domain.ToolStateResult,
			Result:   payloads[i],
		})
		toolMessages = append(toolMessages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    string(payloads[i]),
			Name:       call.Function.Name,
			ToolCallID: call.ID,
		})
	}

	return parts, toolMessages, nil
}

// saveConversation persists the full turn snapshot in the background with
// its own timeout, detached from the request context. Failures are logged
// only; the user already has their answer.
func (s *StreamingService) saveConversation(userID uint, chatID, title string, messages []domain.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
	defer cancel()

	if err := s.store.Upsert(ctx, userID, chatID, title, messages); err != nil {
		s.logger.Error("failed to save conversation", "chat_id", chatID, "error", err)
	}
}
