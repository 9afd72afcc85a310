// File: internal/handlers/chat_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkarimi-dev/go-askweb/internal/domain"
	"github.com/mkarimi-dev/go-askweb/internal/middleware"
	"github.com/mkarimi-dev/go-askweb/internal/services/chat"
)

// ChatService is the slice of the chat service the handler consumes.
type ChatService interface {
	StreamChatResponse(ctx context.Context, userID uint, req chat.ChatRequest, emit chat.EventSink) error
	ListChats(ctx context.Context, userID uint) ([]domain.Chat, error)
	GetChat(ctx context.Context, userID uint, chatID string) (*domain.Chat, []domain.Message, error)
	DeleteChat(ctx context.Context, userID uint, chatID string) error
}

type ChatHandler struct {
	ChatService ChatService
}

func NewChatHandler(cs ChatService) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

type chatRequestBody struct {
	Messages  []domain.Message `json:"messages"`
	ChatID    string           `json:"chatId"`
	IsNewChat bool             `json:"isNewChat"`
}

// HandleChat streams a tool-augmented model response over SSE. Structured
// frames (chat-created, tool lifecycle, sources) and text deltas share one
// stream; a terminal [DONE] frame closes it.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req chatRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, "Message list cannot be empty", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	streamStarted := false
	emit := func(ev chat.StreamEvent) error {
		if !streamStarted {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Accel-Buffering", "no")
			streamStarted = true
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := h.ChatService.StreamChatResponse(r.Context(), userID, chat.ChatRequest{
		ChatID:    req.ChatID,
		IsNewChat: req.IsNewChat,
		Messages:  req.Messages,
	}, emit)
	if err != nil {
		h.failStream(w, flusher, streamStarted, err)
		return
	}

	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// failStream maps service errors to a status response when the stream has
// not begun, or to a single user-safe error frame when it has. The
// underlying detail is logged, never forwarded.
func (h *ChatHandler) failStream(w http.ResponseWriter, flusher http.Flusher, streamStarted bool, err error) {
	log.Printf("[ChatHandler] Stream failed: %v", err)

	if !streamStarted {
		switch {
		case chat.IsNotFound(err):
			writeError(w, "Chat not found", http.StatusNotFound)
		case chat.IsValidation(err):
			writeError(w, "Bad Request", http.StatusBadRequest)
		default:
			writeError(w, "Error processing chat", http.StatusInternalServerError)
		}
		return
	}

	payload, _ := json.Marshal(chat.StreamEvent{
		Type:    chat.EventError,
		Message: "Something went wrong while generating the response.",
	})
	_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// GetUserChats handles the request to retrieve all chats for a user.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.ChatService.ListChats(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// GetChat handles the request to retrieve one chat with its messages.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["id"]
	chatRecord, messages, err := h.ChatService.GetChat(r.Context(), userID, chatID)
	if err != nil {
		if chat.IsNotFound(err) {
			writeError(w, "Chat not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve chat", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chat":     chatRecord,
		"messages": messages,
	})
}

// DeleteChat removes a chat and its messages.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["id"]
	if err := h.ChatService.DeleteChat(r.Context(), userID, chatID); err != nil {
		if chat.IsNotFound(err) {
			writeError(w, "Chat not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not delete chat", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
