// File: internal/services/search/errors.go
package search

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeUpstream   ErrorType = "UPSTREAM"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type SearchError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Search %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Search %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *SearchError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *SearchError {
	return &SearchError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNetworkError(operation, msg string, cause error) *SearchError {
	return &SearchError{Type: ErrTypeNetwork, Operation: operation, Message: msg, Cause: cause}
}

func NewUpstreamError(operation, msg string, cause error) *SearchError {
	return &SearchError{Type: ErrTypeUpstream, Operation: operation, Message: msg, Cause: cause}
}
