// File: internal/services/chat/chats.go
package chat

import (
	"context"
	"errors"

	"github.com/mkarimi-dev/go-askweb/internal/domain"
	"github.com/mkarimi-dev/go-askweb/internal/repository/conversation"
)

// ListChats returns the user's chats, most recently updated first.
func (s *StreamingService) ListChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	return s.store.List(ctx, userID)
}

// GetChat returns one chat and its ordered messages. A missing chat and a
// foreign chat are reported identically.
func (s *StreamingService) GetChat(ctx context.Context, userID uint, chatID string) (*domain.Chat, []domain.Message, error) {
	chat, messages, err := s.store.Get(ctx, userID, chatID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return nil, nil, NewNotFoundError(userID, chatID)
		}
		return nil, nil, err
	}
	return chat, messages, nil
}

// DeleteChat removes a chat and its messages.
func (s *StreamingService) DeleteChat(ctx context.Context, userID uint, chatID string) error {
	err := s.store.Delete(ctx, userID, chatID)
	if errors.Is(err, conversation.ErrNotFound) {
		return NewNotFoundError(userID, chatID)
	}
	return err
}
