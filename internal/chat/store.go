package chat

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"summit-backend/internal/models"
)

// TurnState tracks where a session is within one user turn.
type TurnState int

const (
	StateIdle TurnState = iota
	StateAwaitingReply
	StateAwaitingTitle
)

var (
	// ErrIndexOutOfRange is returned for any session index outside the list.
	ErrIndexOutOfRange = errors.New("session index out of range")

	// ErrTurnInFlight rejects a new turn while one is still resolving.
	ErrTurnInFlight = errors.New("a turn is already in flight for this session")
)

type session struct {
	id       uuid.UUID
	title    string
	messages []models.ChatMessage
	state    TurnState
	loading  bool
}

// Store owns the ordered session list and the current-index pointer. All
// mutation happens through its methods under one mutex; the list is never
// empty and messages are append-only.
type Store struct {
	mu           sync.Mutex
	sessions     []*session
	current      int
	greeting     string
	initialTitle string
}

// NewStore seeds the list with one session so the current index is always
// valid.
func NewStore(greeting, initialTitle string) *Store {
	s := &Store{
		greeting:     greeting,
		initialTitle: initialTitle,
	}
	s.sessions = append(s.sessions, s.newSession())
	return s
}

func (s *Store) newSession() *session {
	return &session{
		id:    uuid.New(),
		title: s.initialTitle,
		messages: []models.ChatMessage{
			{Role: models.RoleAssistant, Content: s.greeting},
		},
	}
}

// Create appends a new seeded session and moves the current index to it.
// It returns the new session's index.
func (s *Store) Create() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = append(s.sessions, s.newSession())
	s.current = len(s.sessions) - 1
	return s.current
}

// Select moves the current index. Out-of-range indices are rejected rather
// than silently accepted.
func (s *Store) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.sessions) {
		return ErrIndexOutOfRange
	}
	s.current = i
	return nil
}

// Current returns the current session index.
func (s *Store) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Append adds a message to the session at index i.
func (s *Store) Append(i int, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return err
	}
	sess.messages = append(sess.messages, msg)
	return nil
}

// Messages returns a copy of the session's message sequence in append order.
func (s *Store) Messages(i int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChatMessage, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

// SetTitle overwrites the session's title. Under normal flow this happens
// exactly once, after the first turn's reply resolves.
func (s *Store) SetTitle(i int, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return err
	}
	sess.title = title
	return nil
}

// Title returns the session's title.
func (s *Store) Title(i int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return "", err
	}
	return sess.title, nil
}

// BeginTurn transitions Idle → AwaitingReply and raises the loading flag.
// It is the re-entrancy guard: a session that is not Idle rejects new turns.
func (s *Store) BeginTurn(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return err
	}
	if sess.state != StateIdle {
		return ErrTurnInFlight
	}
	sess.state = StateAwaitingReply
	sess.loading = true
	return nil
}

// FinishReply clears the loading flag and transitions AwaitingReply to
// AwaitingTitle (first turn) or Idle. Title derivation does not gate loading.
func (s *Store) FinishReply(i int, awaitTitle bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return err
	}
	sess.loading = false
	if awaitTitle {
		sess.state = StateAwaitingTitle
	} else {
		sess.state = StateIdle
	}
	return nil
}

// FinishTitle returns the session to Idle once the title call resolves,
// whether or not it produced a title.
func (s *Store) FinishTitle(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return err
	}
	sess.state = StateIdle
	return nil
}

// State returns the session's turn state.
func (s *Store) State(i int) (TurnState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return StateIdle, err
	}
	return sess.state, nil
}

// Loading reports the session's loading flag.
func (s *Store) Loading(i int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return false, err
	}
	return sess.loading, nil
}

// Snapshot returns a copy of one session for the HTTP layer.
func (s *Store) Snapshot(i int) (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.at(i)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	return snapshotOf(sess), nil
}

// Snapshots returns copies of every session plus the current index.
func (s *Store) Snapshots() models.SessionListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := models.SessionListSnapshot{
		Sessions: make([]models.SessionSnapshot, len(s.sessions)),
		Current:  s.current,
	}
	for i, sess := range s.sessions {
		out.Sessions[i] = snapshotOf(sess)
	}
	return out
}

func snapshotOf(sess *session) models.SessionSnapshot {
	msgs := make([]models.ChatMessage, len(sess.messages))
	copy(msgs, sess.messages)
	return models.SessionSnapshot{
		ID:       sess.id,
		Title:    sess.title,
		Messages: msgs,
		Loading:  sess.loading,
	}
}

// at must be called with the mutex held.
func (s *Store) at(i int) (*session, error) {
	if i < 0 || i >= len(s.sessions) {
		return nil, ErrIndexOutOfRange
	}
	return s.sessions[i], nil
}
