package message

import (
	"context"

	"github.com/arkovia/go-chatgate/internal/domain"
)

// Repository handles message data operations.
type Repository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	FindByConversationID(ctx context.Context, conversationID string) ([]domain.Message, error)
}
