// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

// Sentinel failures surfaced to the transport layer. ErrForbidden is
// reported for existing conversations owned by someone else; it never
// degrades into ErrConversationNotFound.
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrForbidden            = errors.New("access denied")
)

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeStore      ErrorType = "STORE"
	ErrTypeProvider   ErrorType = "PROVIDER"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewStoreError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStore, Operation: operation, Message: msg, Cause: cause}
}

func NewProviderError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}
