// File: internal/domain/chat.go
package domain

import "time"

// Chat represents a single conversation thread.
// IDs are UUID strings so that a client may supply its own id for a
// brand new chat; the server generates one otherwise.
type Chat struct {
	ID        string    `json:"id" gorm:"primarykey;size:36"`
	UserID    uint      `json:"user_id" gorm:"not null;index"` // Owner; immutable after creation
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
