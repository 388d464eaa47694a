package chat

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/arkovia/go-chatgate/internal/domain"
	"github.com/arkovia/go-chatgate/internal/repository/conversation"
	"github.com/arkovia/go-chatgate/internal/services/ai"
)

// memConversationRepo is an in-memory conversation.Repository. It shares
// the message fake so delete and clear behave like the real transactional
// repository.
type memConversationRepo struct {
	mu    sync.Mutex
	convs map[string]*domain.Conversation
	msgs  *memMessageRepo

	findErr  error
	titleErr error
}

func newMemConversationRepo(msgs *memMessageRepo) *memConversationRepo {
	return &memConversationRepo{convs: map[string]*domain.Conversation{}, msgs: msgs}
}

func (r *memConversationRepo) Create(_ context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv.ID == "" {
		conv.ID = "conv-" + time.Now().Format("150405.000000000")
	}
	if conv.Title == "" {
		conv.Title = domain.DefaultTitle
	}
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	cp := *conv
	r.convs[conv.ID] = &cp
	return conv, nil
}

func (r *memConversationRepo) FindByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	conv, ok := r.convs[id]
	if !ok {
		return nil, conversation.ErrConversationNotFound
	}
	cp := *conv
	return &cp, nil
}

func (r *memConversationRepo) FindByUserID(_ context.Context, userID string) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Conversation
	for _, conv := range r.convs {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memConversationRepo) TouchUpdatedAt(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return conversation.ErrConversationNotFound
	}
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memConversationRepo) UpdateTitle(_ context.Context, id, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.titleErr != nil {
		return r.titleErr
	}
	conv, ok := r.convs[id]
	if !ok {
		return conversation.ErrConversationNotFound
	}
	conv.Title = title
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memConversationRepo) DeleteWithMessages(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convs[id]; !ok {
		return conversation.ErrConversationNotFound
	}
	delete(r.convs, id)
	r.msgs.removeConversation(id)
	return nil
}

func (r *memConversationRepo) ClearMessages(_ context.Context, id, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return conversation.ErrConversationNotFound
	}
	conv.Title = title
	conv.UpdatedAt = time.Now().UTC()
	r.msgs.removeConversation(id)
	return nil
}

func (r *memConversationRepo) title(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.convs[id]; ok {
		return conv.Title
	}
	return ""
}

// memMessageRepo is an in-memory message.Repository.
type memMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message

	createErr error
	findErr   error
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if msg.ID == "" {
		msg.ID = "msg-" + time.Now().Format("150405.000000000")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	r.messages = append(r.messages, *msg)
	return msg, nil
}

func (r *memMessageRepo) FindByConversationID(_ context.Context, conversationID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memMessageRepo) removeConversation(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ConversationID != conversationID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
}

func (r *memMessageRepo) byRole(conversationID, role string) []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// scriptedProvider replays canned fragments or a canned reply and records
// the history it was handed.
type scriptedProvider struct {
	reply     string
	fragments []string
	err       error

	gotHistory []ai.ChatMessage
}

func (p *scriptedProvider) Complete(_ context.Context, history []ai.ChatMessage) (string, error) {
	p.gotHistory = history
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *scriptedProvider) StreamCompletion(_ context.Context, history []ai.ChatMessage, onDelta func(string) error) error {
	p.gotHistory = history
	if p.err != nil {
		return p.err
	}
	for _, f := range p.fragments {
		if err := onDelta(f); err != nil {
			return err
		}
	}
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

type fixture struct {
	service  *Service
	convRepo *memConversationRepo
	msgRepo  *memMessageRepo
	provider *scriptedProvider
}

func newFixture(t *testing.T, provider *scriptedProvider) *fixture {
	t.Helper()
	msgRepo := &memMessageRepo{}
	convRepo := newMemConversationRepo(msgRepo)
	svc, err := NewService(DefaultConfig(), convRepo, msgRepo, provider, noopLogger{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{service: svc, convRepo: convRepo, msgRepo: msgRepo, provider: provider}
}

func (f *fixture) seedConversation(t *testing.T, userID string) *domain.Conversation {
	t.Helper()
	conv, err := f.convRepo.Create(context.Background(), &domain.Conversation{UserID: userID})
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	return conv
}

var errBoom = errors.New("boom")
