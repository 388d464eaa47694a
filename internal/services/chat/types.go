// File: internal/services/chat/types.go
package chat

import (
	"time"

	"github.com/arkovia/go-chatgate/internal/domain"
)

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Event types emitted during a streamed turn, in protocol order. An error
// event may replace any point in the sequence and always ends the stream.
const (
	EventUserMessage           = "user_message"
	EventAssistantMessageStart = "assistant_message_start"
	EventContent               = "content"
	EventEnd                   = "end"
	EventError                 = "error"
)

// Event is one typed item of the streamed-turn protocol. The transport is
// responsible for framing; the relay only decides order and content.
type Event struct {
	Type      string          `json:"type"`
	Message   *domain.Message `json:"message,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	Content   string          `json:"content,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// EmitFunc delivers one event downstream. A non-nil return means the
// client can no longer be reached and no further events should be sent.
type EmitFunc func(Event) error

// TurnResult is the batch-mode outcome of one turn: both sides of the
// exchange as persisted.
type TurnResult struct {
	UserMessage      *domain.Message `json:"userMessage"`
	AssistantMessage *domain.Message `json:"assistantMessage"`
}
