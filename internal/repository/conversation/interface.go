package conversation

import (
	"context"

	"github.com/arkovia/go-chatgate/internal/domain"
)

// Repository handles conversation documents. Messages live in their own
// repository, except where their lifecycle must be atomic with the
// conversation itself (delete and clear).
type Repository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Conversation, error)
	TouchUpdatedAt(ctx context.Context, id string) error
	UpdateTitle(ctx context.Context, id, title string) error
	DeleteWithMessages(ctx context.Context, id string) error
	ClearMessages(ctx context.Context, id, title string) error
}
