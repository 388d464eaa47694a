// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"

	"github.com/arkovia/go-chatgate/internal/auth"
	"github.com/arkovia/go-chatgate/internal/domain"
	"github.com/arkovia/go-chatgate/internal/repository/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService is the identity surface: it issues and verifies the bearer
// credentials the rest of the gateway trusts.
type AuthService struct {
	userRepo     user.Repository
	jwtSecretKey []byte
	logger       Logger
}

func NewAuthService(userRepo user.Repository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: []byte(jwtSecretKey),
		logger:       logger,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	u := &domain.User{Email: email}
	if err := u.IsValid(); err != nil {
		return nil, err
	}
	if err := u.HashPassword(password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		s.logger.Warn("registration failed - email already exists", "user_id", existing.ID)
		return nil, ErrEmailTaken
	}

	created, err := s.userRepo.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return created, nil
}

// Login authenticates a user and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed - user not found")
		return nil, "", ErrInvalidCredentials
	}
	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", u.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecretKey)
	if err != nil {
		s.logger.Error("token generation failed", "error", err, "user_id", u.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", u.ID)
	return u, token, nil
}

// VerifyToken validates a bearer token and resolves its user.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := auth.ValidateToken(token, s.jwtSecretKey)
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}
