// File: internal/services/chat/service.go
package chat

import (
	"context"
	"errors"

	"github.com/arkovia/go-chatgate/internal/domain"
	"github.com/arkovia/go-chatgate/internal/repository/conversation"
	"github.com/arkovia/go-chatgate/internal/repository/message"
	"github.com/arkovia/go-chatgate/internal/services/ai"
)

// Service owns the conversation lifecycle and the chat relay. Store and
// provider handles are injected once at startup and shared across
// requests; there is no in-process caching in front of either.
type Service struct {
	config           *Config
	conversationRepo conversation.Repository
	messageRepo      message.Repository
	provider         ai.CompletionProvider
	logger           Logger
}

func NewService(
	config *Config,
	conversationRepo conversation.Repository,
	messageRepo message.Repository,
	provider ai.CompletionProvider,
	logger Logger,
) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if conversationRepo == nil || messageRepo == nil {
		return nil, errors.New("conversation and message repositories are required")
	}
	if provider == nil {
		return nil, errors.New("completion provider is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &Service{
		config:           config,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		provider:         provider,
		logger:           logger,
	}, nil
}

// ListConversations returns every conversation of one owner as summaries,
// most recently updated first. Message bodies are never loaded here; each
// summary carries an empty message list as the API contract requires.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	convs, err := s.conversationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, NewStoreError("list_conversations", "failed to list conversations", err)
	}
	for i := range convs {
		convs[i].Messages = []domain.Message{}
	}
	return convs, nil
}

// CreateConversation starts an empty conversation. An absent title falls
// back to the sentinel default.
func (s *Service) CreateConversation(ctx context.Context, userID, title string) (*domain.Conversation, error) {
	if title == "" {
		title = s.config.SentinelTitle
	}

	conv, err := s.conversationRepo.Create(ctx, &domain.Conversation{
		UserID: userID,
		Title:  title,
	})
	if err != nil {
		return nil, NewStoreError("create_conversation", "failed to create conversation", err)
	}
	conv.Messages = []domain.Message{}

	s.logger.Info("conversation created", "conversation_id", conv.ID, "user_id", userID)
	return conv, nil
}

// GetMessages returns the conversation history in ascending timestamp
// order, after the ownership gate.
func (s *Service) GetMessages(ctx context.Context, conversationID, userID string) ([]domain.Message, error) {
	if _, err := s.authorize(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, NewStoreError("get_messages", "failed to load messages", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// DeleteConversation removes the conversation and every message under it,
// all-or-nothing from the caller's perspective.
func (s *Service) DeleteConversation(ctx context.Context, conversationID, userID string) error {
	if _, err := s.authorize(ctx, conversationID, userID); err != nil {
		return err
	}

	if err := s.conversationRepo.DeleteWithMessages(ctx, conversationID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return ErrConversationNotFound
		}
		return NewStoreError("delete_conversation", "failed to delete conversation", err)
	}

	s.logger.Info("conversation deleted", "conversation_id", conversationID, "user_id", userID)
	return nil
}

// ClearConversation resets a conversation to empty: all messages removed,
// title back to the sentinel, updatedAt refreshed. Identity and owner
// survive.
func (s *Service) ClearConversation(ctx context.Context, conversationID, userID string) error {
	if _, err := s.authorize(ctx, conversationID, userID); err != nil {
		return err
	}

	if err := s.conversationRepo.ClearMessages(ctx, conversationID, s.config.SentinelTitle); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return ErrConversationNotFound
		}
		return NewStoreError("clear_conversation", "failed to clear conversation", err)
	}

	s.logger.Info("conversation cleared", "conversation_id", conversationID, "user_id", userID)
	return nil
}
