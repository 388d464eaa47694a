package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arkovia/go-chatgate/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) Repository {
	return &gormMessageRepository{db: db}
}

// Create persists one message. The id may be pre-allocated by the caller
// (the streamed relay announces it before the content exists); otherwise a
// fresh one is assigned here, as is the server timestamp.
func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if err := validateMessageInput(msg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[MessageRepository] database error creating message for conversation %s: %v", msg.ConversationID, err)
		return nil, errors.New("database error creating message")
	}
	return msg, nil
}

// FindByConversationID returns the full history of a conversation in
// ascending timestamp order.
func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] database error finding messages for conversation %s: %v", conversationID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func validateMessageInput(msg *domain.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}
	if msg.ConversationID == "" {
		return errors.New("conversation ID is required")
	}
	if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
		return fmt.Errorf("invalid role %q", msg.Role)
	}
	if msg.Content == "" {
		return errors.New("content cannot be empty")
	}
	return nil
}
