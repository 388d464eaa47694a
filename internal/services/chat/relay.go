// File: internal/services/chat/relay.go
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arkovia/go-chatgate/internal/domain"
	"github.com/arkovia/go-chatgate/internal/services/ai"
)

// Turn executes one batch-mode conversation turn: gate, load history,
// persist the user message, ask the provider for the full reply, persist
// the assistant message, refresh conversation metadata.
//
// The user message is made durable before the provider is consulted, so a
// completion failure leaves it behind; committed side effects are never
// rolled back.
func (s *Service) Turn(ctx context.Context, conversationID, userID, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("turn", "message text is required")
	}

	conv, err := s.authorize(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, NewStoreError("turn", "failed to load history", err)
	}

	userMsg, err := s.persistUserMessage(ctx, conversationID, text)
	if err != nil {
		return nil, err
	}

	reply, err := s.provider.Complete(ctx, buildProviderInput(history, text))
	if err != nil {
		return nil, NewProviderError("turn", "completion failed", err)
	}

	assistantMsg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		Timestamp:      time.Now().UTC(),
	}
	if _, err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return nil, NewStoreError("turn", "failed to persist assistant message", err)
	}

	if err := s.finishTurn(ctx, conv, history, text); err != nil {
		return nil, err
	}

	s.logger.Info("turn completed",
		"conversation_id", conversationID, "reply_length", len(reply))
	return &TurnResult{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// persistUserMessage stores the user's side of the turn with its own
// server-assigned timestamp.
func (s *Service) persistUserMessage(ctx context.Context, conversationID, text string) (*domain.Message, error) {
	userMsg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        text,
		Timestamp:      time.Now().UTC(),
	}
	if _, err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, NewStoreError("turn", "failed to persist user message", err)
	}
	return userMsg, nil
}

// buildProviderInput maps the stored history plus the new user turn into
// provider input, in that order. The full history is sent on every turn;
// nothing is truncated or summarized, which is a known limit for very long
// threads. No system prompt is injected.
func buildProviderInput(history []domain.Message, text string) []ai.ChatMessage {
	input := make([]ai.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		input = append(input, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return append(input, ai.ChatMessage{Role: domain.RoleUser, Content: text})
}

// finishTurn refreshes conversation metadata after both sides of the turn
// are persisted. The title is derived exactly once in a conversation's
// life: on a turn whose pre-turn history was empty while the title still
// held the sentinel default.
func (s *Service) finishTurn(ctx context.Context, conv *domain.Conversation, history []domain.Message, text string) error {
	if conv.Title == s.config.SentinelTitle && len(history) == 0 {
		title := deriveTitle(text, s.config.TitleMaxRunes)
		if err := s.conversationRepo.UpdateTitle(ctx, conv.ID, title); err != nil {
			return NewStoreError("finish_turn", "failed to update conversation title", err)
		}
		return nil
	}

	if err := s.conversationRepo.TouchUpdatedAt(ctx, conv.ID); err != nil {
		return NewStoreError("finish_turn", "failed to refresh conversation timestamp", err)
	}
	return nil
}
