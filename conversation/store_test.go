package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreStart(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	state, greeting, err := s.Start(ctx, "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, state.ID)
	assert.Equal(t, "user-1", state.UserID)
	assert.Equal(t, StepGreeting, state.CurrentStep)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, RoleAssistant, state.Messages[0].Role)
	assert.Equal(t, greeting.ID, state.Messages[0].ID)
	assert.Equal(t, 1, s.Len())
}

func TestStoreSendMessageUnknownIDDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	_, _, _, _, err := s.SendMessage(ctx, "missing", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStoreGetUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestStoreEndUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	_, _, _, err := s.End(ctx, "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestStoreMessageSequence(t *testing.T) {
	// N send_message calls yield 2N+1 messages: one greeting plus a
	// user/assistant pair per turn, strictly alternating after the greeting.
	ctx := context.Background()
	s := NewStore(nil)

	state, _, err := s.Start(ctx, "user-1")
	require.NoError(t, err)

	turns := []string{
		"I want to build a todo app",
		"It should work on web and mobile",
		"I need reminders and streaks",
		"Yes, exactly",
	}
	for _, msg := range turns {
		_, _, _, _, err := s.SendMessage(ctx, state.ID, msg)
		require.NoError(t, err)
	}

	final, err := s.Get(ctx, state.ID)
	require.NoError(t, err)
	require.Len(t, final.Messages, 2*len(turns)+1)

	assert.Equal(t, RoleAssistant, final.Messages[0].Role)
	for i := 1; i < len(final.Messages); i += 2 {
		assert.Equal(t, RoleUser, final.Messages[i].Role, "message %d", i)
		assert.Equal(t, RoleAssistant, final.Messages[i+1].Role, "message %d", i+1)
	}
	assert.Equal(t, StepCompletion, final.CurrentStep)
}

func TestStoreFullFlowRequiresAction(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	state, _, err := s.Start(ctx, "user-1")
	require.NoError(t, err)

	_, _, st, requiresAction, err := s.SendMessage(ctx, state.ID, "I want to build a todo app")
	require.NoError(t, err)
	assert.Equal(t, StepRequirementGathering, st.CurrentStep)
	assert.False(t, requiresAction)

	_, _, st, _, err = s.SendMessage(ctx, state.ID, "web and android please")
	require.NoError(t, err)
	assert.Equal(t, StepRequirementGathering, st.CurrentStep)

	_, _, st, _, err = s.SendMessage(ctx, state.ID, "it should have due dates, I want reminders")
	require.NoError(t, err)
	assert.Equal(t, StepClarification, st.CurrentStep)

	_, assistantMsg, st, requiresAction, err := s.SendMessage(ctx, state.ID, "Yes, that's exactly right")
	require.NoError(t, err)
	assert.Equal(t, StepCompletion, st.CurrentStep)
	assert.True(t, requiresAction)
	assert.Contains(t, assistantMsg.Content, "ready")
}

func TestStoreEnd(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	offset := time.Duration(0)
	s.now = func() time.Time {
		offset += 10 * time.Second
		return base.Add(offset)
	}

	state, _, err := s.Start(ctx, "user-1")
	require.NoError(t, err)

	_, _, _, _, err = s.SendMessage(ctx, state.ID, "I want to build a recipe app")
	require.NoError(t, err)

	closing, finalReq, summary, err := s.End(ctx, state.ID)
	require.NoError(t, err)

	assert.Equal(t, RoleAssistant, closing.Role)
	require.NotNil(t, finalReq)
	assert.Equal(t, domainFeatures["recipe"], finalReq.CoreFeatures)

	// greeting + user + assistant + closing
	assert.Equal(t, 1, summary.UserMessages)
	assert.Equal(t, 3, summary.AssistantMessages)
	assert.Equal(t, int64(30), summary.DurationSeconds)

	// The conversation is kept until the cleanup job evicts it.
	got, err := s.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, got.Ended)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	state, _, err := s.Start(ctx, "user-1")
	require.NoError(t, err)

	snap, err := s.Get(ctx, state.ID)
	require.NoError(t, err)
	snap.Messages[0].Content = "tampered"
	snap.CurrentStep = StepCompletion

	fresh, err := s.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, greetingText, fresh.Messages[0].Content)
	assert.Equal(t, StepGreeting, fresh.CurrentStep)
}

func TestStorePreviousAppsContext(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	s.RecordApp("user-1", "SimpleTodo")

	state, _, err := s.Start(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"SimpleTodo"}, state.Context.PreviousApps)

	other, _, err := s.Start(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, other.Context.PreviousApps)
}
