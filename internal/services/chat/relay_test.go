package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkovia/go-chatgate/internal/domain"
)

func TestTurnPersistsBothSidesAndReturnsThem(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "Hi there!"})
	conv := f.seedConversation(t, "alice")

	result, err := f.service.Turn(context.Background(), conv.ID, "alice", "Hello")
	require.NoError(t, err)

	require.NotNil(t, result.UserMessage)
	assert.Equal(t, domain.RoleUser, result.UserMessage.Role)
	assert.Equal(t, "Hello", result.UserMessage.Content)

	require.NotNil(t, result.AssistantMessage)
	assert.Equal(t, domain.RoleAssistant, result.AssistantMessage.Role)
	assert.Equal(t, "Hi there!", result.AssistantMessage.Content)

	history, err := f.service.GetMessages(context.Background(), conv.ID, "alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, result.UserMessage.ID, history[0].ID)
	assert.Equal(t, result.AssistantMessage.ID, history[1].ID)
}

func TestTurnSendsHistoryPlusNewMessageInOrder(t *testing.T) {
	provider := &scriptedProvider{reply: "second reply"}
	f := newFixture(t, provider)
	conv := f.seedConversation(t, "alice")

	provider.reply = "first reply"
	_, err := f.service.Turn(context.Background(), conv.ID, "alice", "first question")
	require.NoError(t, err)

	provider.reply = "second reply"
	_, err = f.service.Turn(context.Background(), conv.ID, "alice", "second question")
	require.NoError(t, err)

	got := provider.gotHistory
	require.Len(t, got, 3)
	assert.Equal(t, domain.RoleUser, got[0].Role)
	assert.Equal(t, "first question", got[0].Content)
	assert.Equal(t, domain.RoleAssistant, got[1].Role)
	assert.Equal(t, "first reply", got[1].Content)
	assert.Equal(t, domain.RoleUser, got[2].Role)
	assert.Equal(t, "second question", got[2].Content)
}

func TestTurnDerivesTitleOnFirstTurnOnly(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "ok"})
	conv := f.seedConversation(t, "alice")

	long := strings.Repeat("a", 60)
	_, err := f.service.Turn(context.Background(), conv.ID, "alice", long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 50)+"...", f.convRepo.title(conv.ID))

	_, err = f.service.Turn(context.Background(), conv.ID, "alice", "another message")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 50)+"...", f.convRepo.title(conv.ID), "title must never be overwritten after the first turn")
}

func TestTurnKeepsShortTitleUnmodified(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "Hi there!"})
	conv := f.seedConversation(t, "alice")

	_, err := f.service.Turn(context.Background(), conv.ID, "alice", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", f.convRepo.title(conv.ID))
}

func TestTurnProviderFailureKeepsUserMessageOnly(t *testing.T) {
	f := newFixture(t, &scriptedProvider{err: errBoom})
	conv := f.seedConversation(t, "alice")

	_, err := f.service.Turn(context.Background(), conv.ID, "alice", "Hello")
	require.Error(t, err)

	// The user's turn is durable even though the completion failed; the
	// assistant side was never persisted.
	assert.Len(t, f.msgRepo.byRole(conv.ID, domain.RoleUser), 1)
	assert.Empty(t, f.msgRepo.byRole(conv.ID, domain.RoleAssistant))
}

func TestTurnAccessGateRunsBeforeAnyWrite(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "ok"})
	conv := f.seedConversation(t, "bob")

	_, err := f.service.Turn(context.Background(), conv.ID, "alice", "Hello")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.msgRepo.byRole(conv.ID, domain.RoleUser))

	_, err = f.service.Turn(context.Background(), "missing", "alice", "Hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestTurnRejectsBlankMessage(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "ok"})
	conv := f.seedConversation(t, "alice")

	_, err := f.service.Turn(context.Background(), conv.ID, "alice", "   ")
	require.Error(t, err)

	var chatErr *ChatError
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeValidation, chatErr.Type)
}
