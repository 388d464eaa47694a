// File: internal/services/chat/streaming.go
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arkovia/go-chatgate/internal/domain"
)

// persistTimeout bounds best-effort saves that run after the request
// context is already dead.
const persistTimeout = 5 * time.Second

// StreamTurn executes one streamed-mode turn, writing protocol events
// through emit as they happen: user_message, assistant_message_start, zero
// or more content fragments in arrival order, then end. Fragments are
// forwarded unbuffered and accumulated; the assistant message is persisted
// only once the fragment sequence is exhausted, under the id announced in
// the start event.
//
// A returned error means the stream ended early; the transport converts it
// into the terminal error event. Side effects already committed (the user
// message in particular) are not rolled back.
//
// If emit reports the client gone mid-stream, forwarding stops, the
// provider stream is abandoned, and whatever fragments accumulated are
// persisted best-effort as the assistant message.
func (s *Service) StreamTurn(ctx context.Context, conversationID, userID, text string, emit EmitFunc) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("stream_turn", "message text is required")
	}

	conv, err := s.authorize(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	history, err := s.messageRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return NewStoreError("stream_turn", "failed to load history", err)
	}

	userMsg, err := s.persistUserMessage(ctx, conversationID, text)
	if err != nil {
		return err
	}
	if err := emit(Event{Type: EventUserMessage, Message: userMsg}); err != nil {
		return err
	}

	// The assistant id is fixed before the first fragment goes out so
	// every content event references a stable message id.
	assistantID := uuid.NewString()
	startedAt := time.Now().UTC()
	if err := emit(Event{Type: EventAssistantMessageStart, MessageID: assistantID, Timestamp: &startedAt}); err != nil {
		return err
	}

	var full strings.Builder
	emitFailed := false
	streamErr := s.provider.StreamCompletion(ctx, buildProviderInput(history, text), func(fragment string) error {
		full.WriteString(fragment)
		if err := emit(Event{Type: EventContent, MessageID: assistantID, Content: fragment}); err != nil {
			emitFailed = true
			return err
		}
		return nil
	})
	if streamErr != nil {
		if emitFailed {
			s.saveAbandonedAssistant(conv, history, text, assistantID, startedAt, full.String())
			return streamErr
		}
		return NewProviderError("stream_turn", "streaming completion failed", streamErr)
	}

	if full.Len() == 0 {
		return NewProviderError("stream_turn", "empty streaming response", nil)
	}

	assistantMsg := &domain.Message{
		ID:             assistantID,
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        full.String(),
		Timestamp:      startedAt,
	}
	if _, err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return NewStoreError("stream_turn", "failed to persist assistant message", err)
	}

	if err := s.finishTurn(ctx, conv, history, text); err != nil {
		return err
	}

	s.logger.Info("stream turn completed",
		"conversation_id", conversationID, "reply_length", full.Len())
	return emit(Event{Type: EventEnd, MessageID: assistantID})
}

// saveAbandonedAssistant persists the fragments accumulated before a client
// disconnect. The request context is dead by now, so the save runs on its
// own short-lived context and failures are only logged.
func (s *Service) saveAbandonedAssistant(conv *domain.Conversation, history []domain.Message, text, assistantID string, startedAt time.Time, content string) {
	if content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	msg := &domain.Message{
		ID:             assistantID,
		ConversationID: conv.ID,
		Role:           domain.RoleAssistant,
		Content:        content,
		Timestamp:      startedAt,
	}
	if _, err := s.messageRepo.Create(ctx, msg); err != nil {
		s.logger.Error("failed to persist partial assistant message",
			"conversation_id", conv.ID, "error", err)
		return
	}
	if err := s.finishTurn(ctx, conv, history, text); err != nil {
		s.logger.Error("failed to refresh conversation after disconnect",
			"conversation_id", conv.ID, "error", err)
	}
}
