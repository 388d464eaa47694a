// File: internal/services/chat/access.go
package chat

import (
	"context"
	"errors"

	"github.com/arkovia/go-chatgate/internal/domain"
	"github.com/arkovia/go-chatgate/internal/repository/conversation"
)

// authorize is the ownership gate shared by every conversation-scoped
// operation: the conversation must exist and belong to the caller, and the
// check runs before anything else touches the store. A conversation owned
// by someone else is always reported as ErrForbidden, never as absent.
func (s *Service) authorize(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, NewStoreError("authorize", "failed to load conversation", err)
	}
	if conv.UserID != userID {
		s.logger.Warn("conversation access denied",
			"conversation_id", conversationID, "user_id", userID)
		return nil, ErrForbidden
	}
	return conv, nil
}
