package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summit-backend/internal/models"
)

func newTestStore() *Store {
	return NewStore("Hello! How can I help?", "New Chat")
}

func TestNewStore_SeedsOneSession(t *testing.T) {
	s := newTestStore()

	require.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Current())

	snap, err := s.Snapshot(0)
	require.NoError(t, err)
	assert.Equal(t, "New Chat", snap.Title)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, models.RoleAssistant, snap.Messages[0].Role)
	assert.Equal(t, "Hello! How can I help?", snap.Messages[0].Content)
	assert.False(t, snap.Loading)
}

func TestCreate_AppendsAndMovesCurrent(t *testing.T) {
	s := newTestStore()

	index := s.Create()
	assert.Equal(t, 1, index)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Current())

	snap, err := s.Snapshot(index)
	require.NoError(t, err)
	require.Len(t, snap.Messages, 1)
	assert.NotEqual(t, snap.ID, mustSnapshot(t, s, 0).ID)
}

func TestSelect_Idempotent(t *testing.T) {
	s := newTestStore()
	s.Create()

	require.NoError(t, s.Select(0))
	before := s.Snapshots()

	require.NoError(t, s.Select(0))
	after := s.Snapshots()

	assert.Equal(t, before, after)
}

func TestSelect_OutOfRange(t *testing.T) {
	s := newTestStore()

	for _, i := range []int{-1, 1, 99} {
		err := s.Select(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", i)
	}
	assert.Equal(t, 0, s.Current())
}

func TestAppend_RoundTripInOrder(t *testing.T) {
	s := newTestStore()

	var want []models.ChatMessage
	for i := 0; i < 7; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		msg := models.ChatMessage{Role: role, Content: fmt.Sprintf("message %d", i)}
		want = append(want, msg)
		require.NoError(t, s.Append(0, msg))
	}

	got, err := s.Messages(0)
	require.NoError(t, err)
	// First element is the seeded greeting.
	assert.Equal(t, want, got[1:])
}

func TestAppend_OutOfRange(t *testing.T) {
	s := newTestStore()
	err := s.Append(5, models.ChatMessage{Role: models.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetTitle(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.SetTitle(0, "Keynote schedule"))
	title, err := s.Title(0)
	require.NoError(t, err)
	assert.Equal(t, "Keynote schedule", title)

	assert.ErrorIs(t, s.SetTitle(3, "x"), ErrIndexOutOfRange)
}

func TestTurnStateTransitions(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.BeginTurn(0))
	assertState(t, s, 0, StateAwaitingReply)
	loading, _ := s.Loading(0)
	assert.True(t, loading)

	// A second turn is rejected while one is in flight.
	assert.ErrorIs(t, s.BeginTurn(0), ErrTurnInFlight)

	require.NoError(t, s.FinishReply(0, true))
	assertState(t, s, 0, StateAwaitingTitle)
	loading, _ = s.Loading(0)
	assert.False(t, loading)

	// Still not Idle: sends stay rejected until the title settles.
	assert.ErrorIs(t, s.BeginTurn(0), ErrTurnInFlight)

	require.NoError(t, s.FinishTitle(0))
	assertState(t, s, 0, StateIdle)
	require.NoError(t, s.BeginTurn(0))
}

func TestFinishReply_WithoutTitleGoesIdle(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.BeginTurn(0))
	require.NoError(t, s.FinishReply(0, false))
	assertState(t, s, 0, StateIdle)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := newTestStore()

	snap := mustSnapshot(t, s, 0)
	snap.Messages[0].Content = "mutated"
	snap.Title = "mutated"

	fresh := mustSnapshot(t, s, 0)
	assert.Equal(t, "Hello! How can I help?", fresh.Messages[0].Content)
	assert.Equal(t, "New Chat", fresh.Title)
}

func assertState(t *testing.T, s *Store, i int, want TurnState) {
	t.Helper()
	state, err := s.State(i)
	require.NoError(t, err)
	assert.Equal(t, want, state)
}

func mustSnapshot(t *testing.T, s *Store, i int) models.SessionSnapshot {
	t.Helper()
	snap, err := s.Snapshot(i)
	require.NoError(t, err)
	return snap
}
