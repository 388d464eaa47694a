package user

import (
	"context"

	"github.com/arkovia/go-chatgate/internal/domain"
)

// Repository handles user data operations for the identity surface.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
