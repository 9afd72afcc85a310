// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mkarimi-dev/go-askweb/internal/domain"
)

var (
	// ErrNotFound covers both "does not exist" and "owned by someone else";
	// callers must not be able to tell the two apart.
	ErrNotFound = errors.New("chat not found")

	// ErrOwnershipConflict is returned by Upsert when the chat id already
	// exists under a different user.
	ErrOwnershipConflict = errors.New("chat id owned by another user")
)

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

// Upsert creates or replaces a chat and its full message snapshot in a
// single transaction, so a crash can never leave a chat with its messages
// half written.
func (r *gormConversationRepository) Upsert(ctx context.Context, userID uint, chatID, title string, messages []domain.Message) error {
	if err := validateIDs(userID, chatID); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat domain.Chat
		err := tx.First(&chat, "id = ?", chatID).Error
		switch {
		case err == nil:
			if chat.UserID != userID {
				return ErrOwnershipConflict
			}
			updates := map[string]interface{}{"updated_at": time.Now()}
			if title != "" && title != chat.Title {
				updates["title"] = title
			}
			if err := tx.Model(&domain.Chat{}).Where("id = ?", chatID).Updates(updates).Error; err != nil {
				return fmt.Errorf("update chat: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			chat = domain.Chat{ID: chatID, UserID: userID, Title: title}
			if err := tx.Create(&chat).Error; err != nil {
				return fmt.Errorf("create chat: %w", err)
			}
		default:
			return fmt.Errorf("find chat: %w", err)
		}

		// Full-snapshot write: drop everything, reinsert in caller order.
		if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
			return fmt.Errorf("delete prior messages: %w", err)
		}

		if len(messages) == 0 {
			return nil
		}

		rows := make([]domain.Message, len(messages))
		for i, m := range messages {
			rows[i] = m
			rows[i].ID = 0
			rows[i].ChatID = chatID
			rows[i].Position = i
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert messages: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrOwnershipConflict) {
			log.Printf("[ConversationRepository] Ownership conflict on chat %s for user %d", chatID, userID)
			return ErrOwnershipConflict
		}
		log.Printf("[ConversationRepository] Upsert failed for chat %s: %v", chatID, err)
		return err
	}
	return nil
}

// Get returns the chat and its messages in stored order. A chat belonging
// to another user is reported exactly like a missing one.
func (r *gormConversationRepository) Get(ctx context.Context, userID uint, chatID string) (*domain.Chat, []domain.Message, error) {
	if err := validateIDs(userID, chatID); err != nil {
		return nil, nil, err
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, "id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		log.Printf("[ConversationRepository] Database error finding chat %s: %v", chatID, err)
		return nil, nil, errors.New("database error fetching chat")
	}
	if chat.UserID != userID {
		return nil, nil, ErrNotFound
	}

	var messages []domain.Message
	err = r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("position ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error fetching messages for chat %s: %v", chatID, err)
		return nil, nil, errors.New("database error fetching messages")
	}

	return &chat, messages, nil
}

// List returns the user's chats, most recently updated first.
func (r *gormConversationRepository) List(ctx context.Context, userID uint) ([]domain.Chat, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&chats).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error listing chats for user %d: %v", userID, err)
		return nil, errors.New("database error fetching chats")
	}

	return chats, nil
}

// Delete removes a chat and its messages; a foreign chat id behaves like a
// missing one.
func (r *gormConversationRepository) Delete(ctx context.Context, userID uint, chatID string) error {
	if err := validateIDs(userID, chatID); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", chatID, userID).Delete(&domain.Chat{})
		if result.Error != nil {
			log.Printf("[ConversationRepository] Database error deleting chat %s: %v", chatID, result.Error)
			return errors.New("database error deleting chat")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
			log.Printf("[ConversationRepository] Database error deleting messages for chat %s: %v", chatID, err)
			return errors.New("database error deleting messages")
		}
		return nil
	})
}

func validateIDs(userID uint, chatID string) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}
	if chatID == "" {
		return errors.New("invalid chat ID")
	}
	return nil
}
