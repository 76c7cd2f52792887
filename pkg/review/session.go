package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

const (
	SessionInactivityTimeout = 1 * time.Hour
	SweeperInterval          = 10 * time.Minute
)

var (
	ErrNoEntries    = errors.New("no entries to review")
	ErrNoSession    = errors.New("no active review session")
	ErrInvalidToken = errors.New("callback token does not match the active session")
)

// Action is one flashcard transition.
type Action string

const (
	ActionFlip   Action = "flip"
	ActionPrev   Action = "prev"
	ActionNext   Action = "next"
	ActionKnown  Action = "known"
	ActionReview Action = "review"
)

// Card is the rendered state of the session after a transition.
type Card struct {
	Entry       vocab.Entry
	Position    int // 1-based
	Total       int
	FaceUp      bool
	Known       bool
	NeedsReview bool
}

// Summary reports the labels accumulated when a session ends. Labels are
// session-scoped and never written back to the collection.
type Summary struct {
	Total       int
	KnownCount  int
	ReviewCount int
}

// Session is an ephemeral cursor over a load-time snapshot of the
// learner's collection. Mutating the collection mid-session does not
// change the deck.
type Session struct {
	chatID int64
	userID int64
	token  string

	entries []vocab.Entry
	cursor  int
	faceUp  bool
	known   map[int]struct{}
	review  map[int]struct{}

	lastActivityAt time.Time
}

// Manager tracks active flashcard sessions with thread-safe access.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

var DefaultManager = NewManager(nil)

func ResetDefaultManager(now func() time.Time) {
	DefaultManager = NewManager(now)
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

// StartOrRestart snapshots the entries and replaces any active session.
func (m *Manager) StartOrRestart(chatID, userID int64, entries []vocab.Entry) (Card, string, error) {
	if len(entries) == 0 {
		return Card{}, "", ErrNoEntries
	}
	session := &Session{
		chatID:         chatID,
		userID:         userID,
		token:          uuid.NewString(),
		entries:        append([]vocab.Entry(nil), entries...),
		known:          make(map[int]struct{}),
		review:         make(map[int]struct{}),
		lastActivityAt: m.now(),
	}

	m.mu.Lock()
	m.sessions[sessionKey(chatID, userID)] = session
	card := session.cardLocked()
	m.mu.Unlock()
	return card, session.token, nil
}

// Apply performs one transition on the active session.
func (m *Manager) Apply(chatID, userID int64, token string, action Action) (Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.sessions[sessionKey(chatID, userID)]
	if session == nil {
		return Card{}, ErrNoSession
	}
	if token != session.token {
		return Card{}, ErrInvalidToken
	}
	session.lastActivityAt = m.now()

	switch action {
	case ActionFlip:
		session.faceUp = !session.faceUp
	case ActionPrev:
		if session.cursor > 0 {
			session.cursor--
		}
		session.faceUp = false
	case ActionNext:
		if session.cursor < len(session.entries)-1 {
			session.cursor++
		}
		session.faceUp = false
	case ActionKnown:
		// An index may be labeled both known and needs-review; no mutual
		// exclusion is enforced.
		session.known[session.cursor] = struct{}{}
	case ActionReview:
		session.review[session.cursor] = struct{}{}
	default:
		return Card{}, fmt.Errorf("unknown review action %q", action)
	}

	return session.cardLocked(), nil
}

// Get returns the current card without transitioning.
func (m *Manager) Get(chatID, userID int64) (Card, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.sessions[sessionKey(chatID, userID)]
	if session == nil {
		return Card{}, "", ErrNoSession
	}
	return session.cardLocked(), session.token, nil
}

// End drops the session and reports the accumulated labels.
func (m *Manager) End(chatID, userID int64) (Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey(chatID, userID)
	session := m.sessions[key]
	if session == nil {
		return Summary{}, false
	}
	delete(m.sessions, key)
	return Summary{
		Total:       len(session.entries),
		KnownCount:  len(session.known),
		ReviewCount: len(session.review),
	}, true
}

// StartSweeper drops sessions idle past the inactivity timeout until ctx
// is canceled.
func (m *Manager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(SweeperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	cutoff := m.now().Add(-SessionInactivityTimeout)
	m.mu.Lock()
	for key, session := range m.sessions {
		if session.lastActivityAt.Before(cutoff) {
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()
}

func (s *Session) cardLocked() Card {
	_, known := s.known[s.cursor]
	_, needsReview := s.review[s.cursor]
	return Card{
		Entry:       s.entries[s.cursor],
		Position:    s.cursor + 1,
		Total:       len(s.entries),
		FaceUp:      s.faceUp,
		Known:       known,
		NeedsReview: needsReview,
	}
}
