package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkovia/go-chatgate/internal/domain"
)

// eventRecorder collects emitted events and can simulate the client going
// away after a given number of events.
type eventRecorder struct {
	events  []Event
	failAt  int // fail the nth emit (1-based); 0 means never fail
	failErr error
}

func (r *eventRecorder) emit(e Event) error {
	r.events = append(r.events, e)
	if r.failAt > 0 && len(r.events) >= r.failAt {
		return r.failErr
	}
	return nil
}

func (r *eventRecorder) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func TestStreamTurnEmitsProtocolOrder(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fragments: []string{"Hi", " there!"}})
	conv := f.seedConversation(t, "alice")

	rec := &eventRecorder{}
	err := f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit)
	require.NoError(t, err)

	assert.Equal(t, []string{
		EventUserMessage,
		EventAssistantMessageStart,
		EventContent,
		EventContent,
		EventEnd,
	}, rec.types())

	userEvent := rec.events[0]
	require.NotNil(t, userEvent.Message)
	assert.Equal(t, domain.RoleUser, userEvent.Message.Role)
	assert.Equal(t, "Hello", userEvent.Message.Content)

	start := rec.events[1]
	assert.NotEmpty(t, start.MessageID)
	require.NotNil(t, start.Timestamp)

	assert.Equal(t, "Hi", rec.events[2].Content)
	assert.Equal(t, " there!", rec.events[3].Content)
}

func TestStreamTurnAssistantIDStableAcrossEvents(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fragments: []string{"a", "b", "c"}})
	conv := f.seedConversation(t, "alice")

	rec := &eventRecorder{}
	require.NoError(t, f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit))

	id := rec.events[1].MessageID
	require.NotEmpty(t, id)
	for _, e := range rec.events[2:] {
		assert.Equal(t, id, e.MessageID)
	}

	saved := f.msgRepo.byRole(conv.ID, domain.RoleAssistant)
	require.Len(t, saved, 1)
	assert.Equal(t, id, saved[0].ID)
}

func TestStreamTurnPersistedContentEqualsFragmentConcatenation(t *testing.T) {
	fragments := []string{"The ", "quick ", "brown ", "fox"}
	f := newFixture(t, &scriptedProvider{fragments: fragments})
	conv := f.seedConversation(t, "alice")

	rec := &eventRecorder{}
	require.NoError(t, f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit))

	saved := f.msgRepo.byRole(conv.ID, domain.RoleAssistant)
	require.Len(t, saved, 1)
	assert.Equal(t, strings.Join(fragments, ""), saved[0].Content)
}

func TestStreamTurnDerivesTitleLikeBatchMode(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fragments: []string{"ok"}})
	conv := f.seedConversation(t, "alice")

	rec := &eventRecorder{}
	require.NoError(t, f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit))
	assert.Equal(t, "Hello", f.convRepo.title(conv.ID))
}

func TestStreamTurnProviderFailureKeepsUserMessageOnly(t *testing.T) {
	f := newFixture(t, &scriptedProvider{err: errBoom})
	conv := f.seedConversation(t, "alice")

	rec := &eventRecorder{}
	err := f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit)
	require.Error(t, err)

	var chatErr *ChatError
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeProvider, chatErr.Type)

	// user_message and assistant_message_start went out before the
	// provider failed; nothing assistant-side was persisted.
	assert.Equal(t, []string{EventUserMessage, EventAssistantMessageStart}, rec.types())
	assert.Len(t, f.msgRepo.byRole(conv.ID, domain.RoleUser), 1)
	assert.Empty(t, f.msgRepo.byRole(conv.ID, domain.RoleAssistant))
}

func TestStreamTurnEmptyStreamIsProviderError(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fragments: nil})
	conv := f.seedConversation(t, "alice")

	rec := &eventRecorder{}
	err := f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit)
	require.Error(t, err)

	var chatErr *ChatError
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeProvider, chatErr.Type)
	assert.Empty(t, f.msgRepo.byRole(conv.ID, domain.RoleAssistant))
}

func TestStreamTurnClientDisconnectPersistsPartialContent(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fragments: []string{"partial", " answer", " ignored"}})
	conv := f.seedConversation(t, "alice")

	// Events: user_message(1), start(2), content(3), content(4) fails.
	rec := &eventRecorder{failAt: 4, failErr: errBoom}
	err := f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit)
	require.ErrorIs(t, err, errBoom)

	saved := f.msgRepo.byRole(conv.ID, domain.RoleAssistant)
	require.Len(t, saved, 1)
	assert.Equal(t, "partial answer", saved[0].Content)
	assert.Equal(t, rec.events[1].MessageID, saved[0].ID)

	// The turn still counts: title derived from the user message.
	assert.Equal(t, "Hello", f.convRepo.title(conv.ID))
}

func TestStreamTurnAccessGateBeforeAnyEvent(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fragments: []string{"ok"}})
	conv := f.seedConversation(t, "bob")

	rec := &eventRecorder{}
	err := f.service.StreamTurn(context.Background(), conv.ID, "alice", "Hello", rec.emit)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, rec.events)
	assert.Empty(t, f.msgRepo.byRole(conv.ID, domain.RoleUser))
}

func TestStreamTurnRejectsBlankMessage(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fragments: []string{"ok"}})
	conv := f.seedConversation(t, "alice")

	rec := &eventRecorder{}
	err := f.service.StreamTurn(context.Background(), conv.ID, "alice", "\t \n", rec.emit)
	require.Error(t, err)

	var chatErr *ChatError
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeValidation, chatErr.Type)
	assert.Empty(t, rec.events)
}
