package user

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arkovia/go-chatgate/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) Repository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}
	if err := u.IsValid(); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		log.Printf("[UserRepository] database error creating user: %v", err)
		return nil, errors.New("database error creating user")
	}
	return u, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}

	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return handleFindError(err, &u, "FindByID")
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, ErrUserNotFound
	}

	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return handleFindError(err, &u, "FindByEmail")
}

func handleFindError(err error, u *domain.User, operation string) (*domain.User, error) {
	if err == nil {
		return u, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	log.Printf("[UserRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
