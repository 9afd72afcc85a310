// File: internal/handlers/chat_handler_test.go
package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarimi-dev/go-askweb/internal/domain"
	"github.com/mkarimi-dev/go-askweb/internal/middleware"
	"github.com/mkarimi-dev/go-askweb/internal/services/chat"
)

type fakeChatService struct {
	streamFn func(ctx context.Context, userID uint, req chat.ChatRequest, emit chat.EventSink) error
	listFn   func(ctx context.Context, userID uint) ([]domain.Chat, error)
	getFn    func(ctx context.Context, userID uint, chatID string) (*domain.Chat, []domain.Message, error)
	deleteFn func(ctx context.Context, userID uint, chatID string) error
}

func (f *fakeChatService) StreamChatResponse(ctx context.Context, userID uint, req chat.ChatRequest, emit chat.EventSink) error {
	return f.streamFn(ctx, userID, req, emit)
}

func (f *fakeChatService) ListChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeChatService) GetChat(ctx context.Context, userID uint, chatID string) (*domain.Chat, []domain.Message, error) {
	return f.getFn(ctx, userID, chatID)
}

func (f *fakeChatService) DeleteChat(ctx context.Context, userID uint, chatID string) error {
	return f.deleteFn(ctx, userID, chatID)
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uint(1))
	return req.WithContext(ctx)
}

// sseFrames splits an event-stream body into its data payloads.
func sseFrames(t *testing.T, body string) []string {
	t.Helper()
	var frames []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			frames = append(frames, strings.TrimPrefix(line, "data: "))
		}
	}
	return frames
}

func TestHandleChatStreamsEvents(t *testing.T) {
	service := &fakeChatService{
		streamFn: func(ctx context.Context, userID uint, req chat.ChatRequest, emit chat.EventSink) error {
			assert.Equal(t, uint(1), userID)
			assert.True(t, req.IsNewChat)
			if err := emit(chat.StreamEvent{Type: chat.EventChatCreated, ChatID: "chat-1"}); err != nil {
				return err
			}
			return emit(chat.StreamEvent{Type: chat.EventTextDelta, Delta: "Hello"})
		},
	}
	handler := NewChatHandler(service)

	rec := httptest.NewRecorder()
	handler.HandleChat(rec, authedRequest(http.MethodPost, "/api/chat", `{"isNewChat":true,"messages":[{"role":"user","content":"Hi"}]}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	frames := sseFrames(t, rec.Body.String())
	require.Len(t, frames, 3)

	var first chat.StreamEvent
	require.NoError(t, json.Unmarshal([]byte(frames[0]), &first))
	assert.Equal(t, chat.EventChatCreated, first.Type)
	assert.Equal(t, "chat-1", first.ChatID)
	assert.Equal(t, "[DONE]", frames[2])
}

func TestHandleChatRequiresAuth(t *testing.T) {
	handler := NewChatHandler(&fakeChatService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
	handler.HandleChat(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleChatRejectsEmptyMessages(t *testing.T) {
	handler := NewChatHandler(&fakeChatService{})

	rec := httptest.NewRecorder()
	handler.HandleChat(rec, authedRequest(http.MethodPost, "/api/chat", `{"messages":[]}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChatRejectsMalformedBody(t *testing.T) {
	handler := NewChatHandler(&fakeChatService{})

	rec := httptest.NewRecorder()
	handler.HandleChat(rec, authedRequest(http.MethodPost, "/api/chat", `{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChatNotFoundBeforeStream(t *testing.T) {
	service := &fakeChatService{
		streamFn: func(ctx context.Context, userID uint, req chat.ChatRequest, emit chat.EventSink) error {
			return chat.NewNotFoundError(userID, req.ChatID)
		},
	}
	handler := NewChatHandler(service)

	rec := httptest.NewRecorder()
	handler.HandleChat(rec, authedRequest(http.MethodPost, "/api/chat", `{"chatId":"missing","messages":[{"role":"user","content":"Hi"}]}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Chat not found", body["error"])
}

func TestHandleChatErrorMidStream(t *testing.T) {
	service := &fakeChatService{
		streamFn: func(ctx context.Context, userID uint, req chat.ChatRequest, emit chat.EventSink) error {
			if err := emit(chat.StreamEvent{Type: chat.EventTextDelta, Delta: "partial"}); err != nil {
				return err
			}
			return chat.NewStreamingError("model_stream", "upstream dropped the connection", nil)
		},
	}
	handler := NewChatHandler(service)

	rec := httptest.NewRecorder()
	handler.HandleChat(rec, authedRequest(http.MethodPost, "/api/chat", `{"isNewChat":true,"messages":[{"role":"user","content":"Hi"}]}`))

	// Headers are already out; the failure must arrive as a frame.
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := sseFrames(t, rec.Body.String())
	require.Len(t, frames, 3)

	var errEvent chat.StreamEvent
	require.NoError(t, json.Unmarshal([]byte(frames[1]), &errEvent))
	assert.Equal(t, chat.EventError, errEvent.Type)
	assert.NotContains(t, errEvent.Message, "upstream", "internal detail must not leak")
	assert.Equal(t, "[DONE]", frames[2])
}

func TestGetUserChats(t *testing.T) {
	service := &fakeChatService{
		listFn: func(ctx context.Context, userID uint) ([]domain.Chat, error) {
			return []domain.Chat{{ID: "chat-1", UserID: userID, Title: "First"}}, nil
		},
	}
	handler := NewChatHandler(service)

	rec := httptest.NewRecorder()
	handler.GetUserChats(rec, authedRequest(http.MethodGet, "/api/chats", ""))

	assert.Equal(t, http.StatusOK, rec.Code)

	var chats []domain.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "First", chats[0].Title)
}

func TestGetChatNotFound(t *testing.T) {
	service := &fakeChatService{
		getFn: func(ctx context.Context, userID uint, chatID string) (*domain.Chat, []domain.Message, error) {
			return nil, nil, chat.NewNotFoundError(userID, chatID)
		},
	}
	handler := NewChatHandler(service)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(authedRequest(http.MethodGet, "/api/chats/missing", ""), map[string]string{"id": "missing"})
	handler.GetChat(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteChat(t *testing.T) {
	var deletedID string
	service := &fakeChatService{
		deleteFn: func(ctx context.Context, userID uint, chatID string) error {
			deletedID = chatID
			return nil
		},
	}
	handler := NewChatHandler(service)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(authedRequest(http.MethodDelete, "/api/chats/chat-1", ""), map[string]string{"id": "chat-1"})
	handler.DeleteChat(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "chat-1", deletedID)
}
