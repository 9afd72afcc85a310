// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeStreaming   ErrorType = "STREAMING"
	ErrTypeTool        ErrorType = "TOOL"
	ErrTypePersistence ErrorType = "PERSISTENCE"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    string
	UserID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

// NewNotFoundError deliberately uses the same wording whether the chat is
// missing or owned by another user.
func NewNotFoundError(userID uint, chatID string) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: "authorization",
		Message:   "chat not found",
		UserID:    userID,
		ChatID:    chatID,
	}
}

func NewStreamingError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStreaming, Operation: operation, Message: msg, Cause: cause}
}

// IsNotFound reports whether err is a not-found/not-owned chat error.
func IsNotFound(err error) bool {
	chatErr, ok := err.(*ChatError)
	return ok && chatErr.Type == ErrTypeNotFound
}

// IsValidation reports whether err is a request validation error.
func IsValidation(err error) bool {
	chatErr, ok := err.(*ChatError)
	return ok && chatErr.Type == ErrTypeValidation
}
