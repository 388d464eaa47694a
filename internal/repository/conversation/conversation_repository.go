package conversation

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arkovia/go-chatgate/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) Repository {
	return &gormConversationRepository{db: db}
}

// Create assigns a fresh id and persists the conversation. Title falls back
// to the sentinel default when the caller left it empty.
func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv == nil {
		return nil, errors.New("conversation cannot be nil")
	}
	if conv.UserID == "" {
		return nil, errors.New("conversation owner is required")
	}
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.Title == "" {
		conv.Title = domain.DefaultTitle
	}

	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		log.Printf("[ConversationRepository] database error creating conversation for user %s: %v", conv.UserID, err)
		return nil, errors.New("database error creating conversation")
	}
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if id == "" {
		return nil, ErrConversationNotFound
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] database error finding conversation %s: %v", id, err)
		return nil, errors.New("database error fetching conversation")
	}
	return &conv, nil
}

// FindByUserID returns every conversation of one owner, most recently
// updated first. No pagination; the full set is loaded.
func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if userID == "" {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("[ConversationRepository] database error finding conversations for user %s: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}
	return convs, nil
}

func (r *gormConversationRepository) TouchUpdatedAt(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC())
	if result.Error != nil {
		log.Printf("[ConversationRepository] database error updating timestamp for conversation %s: %v", id, result.Error)
		return errors.New("database error updating conversation timestamp")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *gormConversationRepository) UpdateTitle(ctx context.Context, id, title string) error {
	if title == "" {
		return errors.New("title cannot be empty")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		log.Printf("[ConversationRepository] database error updating title for conversation %s: %v", id, result.Error)
		return errors.New("database error updating conversation title")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// DeleteWithMessages removes the conversation and its whole message
// sub-collection in one transaction, so the caller observes all or nothing.
func (r *gormConversationRepository) DeleteWithMessages(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return err
		}
		log.Printf("[ConversationRepository] database error deleting conversation %s: %v", id, err)
		return errors.New("database error deleting conversation")
	}
	return nil
}

// ClearMessages removes every message and resets the title in one
// transaction. Conversation identity and owner survive.
func (r *gormConversationRepository) ClearMessages(ctx context.Context, id, title string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.Conversation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"title":      title,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return err
		}
		log.Printf("[ConversationRepository] database error clearing conversation %s: %v", id, err)
		return errors.New("database error clearing conversation")
	}
	return nil
}
