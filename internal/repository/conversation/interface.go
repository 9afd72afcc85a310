// File: internal/repository/conversation/interface.go
package conversation

import (
	"context"

	"github.com/mkarimi-dev/go-askweb/internal/domain"
)

// ConversationRepository persists chats and their full message snapshots.
//
// Upsert replaces the chat's whole message list: the caller always passes
// the complete ordered conversation, and position in the slice becomes the
// stored order. Get and List never reveal whether a foreign chat exists.
type ConversationRepository interface {
	Upsert(ctx context.Context, userID uint, chatID, title string, messages []domain.Message) error
	Get(ctx context.Context, userID uint, chatID string) (*domain.Chat, []domain.Message, error)
	List(ctx context.Context, userID uint) ([]domain.Chat, error)
	Delete(ctx context.Context, userID uint, chatID string) error
}
