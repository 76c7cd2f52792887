package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

const (
	DeckQuestions     = 10
	OptionCount       = 4
	InactivityTimeout = 15 * time.Minute
	SweeperInterval   = 1 * time.Minute
)

var (
	ErrLocked      = errors.New("quiz is locked until the collection reaches the threshold")
	ErrNoSession   = errors.New("no active quiz session")
	ErrNotCurrent  = errors.New("answer does not address the current question")
	ErrBadOption   = errors.New("option index out of range")
	ErrTooFewWords = errors.New("not enough distinct entries to build answer options")
)

// Question is a single multiple-choice prompt. The learner picks the
// headword that matches the shown definition.
type Question struct {
	Prompt       string
	Options      []string
	correctIndex int
}

// Session tracks a single learner's active quiz state.
type Session struct {
	chatID int64
	userID int64

	startedAt      time.Time
	lastActivityAt time.Time
	correctCount   int
	attemptCount   int

	deck []Question

	currentQuestion *Question
	currentResolved bool
	currentToken    string
}

// Manager manages active quiz sessions with thread-safe access.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// MessageSender abstracts message delivery for timeout sweeps.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
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

// StartSweeper starts the inactivity sweeper on the default manager.
func StartSweeper(ctx context.Context, sender MessageSender) {
	DefaultManager.StartSweeper(ctx, sender)
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

// StartOrRestart builds a deck from the entries and replaces any active
// session. The gate must already be open for the given threshold.
func (m *Manager) StartOrRestart(chatID, userID int64, entries []vocab.Entry, threshold int) (Question, string, error) {
	status := vocab.Gate(len(entries), threshold)
	if !status.Unlocked {
		return Question{}, "", ErrLocked
	}

	deck, err := buildDeck(entries, DeckQuestions)
	if err != nil {
		return Question{}, "", err
	}

	now := m.now()
	session := &Session{
		chatID:          chatID,
		userID:          userID,
		startedAt:       now,
		lastActivityAt:  now,
		deck:            deck,
		currentResolved: true,
	}

	m.mu.Lock()
	m.sessions[sessionKey(chatID, userID)] = session
	question, _ := m.nextQuestionLocked(session)
	token := session.currentToken
	m.mu.Unlock()

	return question, token, nil
}

// AnswerResult reports the outcome of one answered question.
type AnswerResult struct {
	Correct      bool
	Expected     string
	NextQuestion *Question
	NextToken    string
	Done         bool
	StatsText    string
}

// Answer applies the learner's option pick. Missed questions are
// requeued at the back of the deck.
func (m *Manager) Answer(chatID, userID int64, token string, optionIndex int) (AnswerResult, error) {
	key := sessionKey(chatID, userID)
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.sessions[key]
	if session == nil {
		return AnswerResult{}, ErrNoSession
	}
	if session.currentQuestion == nil || session.currentResolved || session.currentToken != token {
		return AnswerResult{}, ErrNotCurrent
	}
	if optionIndex < 0 || optionIndex >= len(session.currentQuestion.Options) {
		return AnswerResult{}, ErrBadOption
	}

	question := *session.currentQuestion
	result := AnswerResult{
		Correct:  optionIndex == question.correctIndex,
		Expected: question.Options[question.correctIndex],
	}

	session.attemptCount++
	if result.Correct {
		session.correctCount++
	}
	session.lastActivityAt = m.now()
	session.currentResolved = true

	if !result.Correct {
		session.deck = append(session.deck, question)
	}

	if len(session.deck) == 0 {
		result.Done = true
		result.StatsText = formatStats(session)
		delete(m.sessions, key)
		return result, nil
	}

	next, _ := m.nextQuestionLocked(session)
	result.NextQuestion = &next
	result.NextToken = session.currentToken
	return result, nil
}

// GetSession returns whether the user has an active session.
func (m *Manager) GetSession(chatID, userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionKey(chatID, userID)] != nil
}

// Stop ends the session early and returns the stats text.
func (m *Manager) Stop(chatID, userID int64) (string, bool) {
	key := sessionKey(chatID, userID)
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.sessions[key]
	if session == nil {
		return "", false
	}
	delete(m.sessions, key)
	return formatStats(session), true
}

// StartSweeper periodically expires inactive sessions until ctx is canceled.
func (m *Manager) StartSweeper(ctx context.Context, sender MessageSender) {
	if sender == nil {
		return
	}
	ticker := time.NewTicker(SweeperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SweepInactive(ctx, sender)
		}
	}
}

// SweepInactive expires idle sessions and sends stats without holding the lock.
func (m *Manager) SweepInactive(ctx context.Context, sender MessageSender) {
	if sender == nil {
		return
	}
	expired := m.collectInactive(m.now())
	for _, session := range expired {
		if err := sender.SendMessage(ctx, session.chatID, session.statsText); err != nil {
			logger.Error("failed to send quiz timeout stats", "chat_id", session.chatID, "error", err)
		}
	}
}

type expiredSession struct {
	chatID    int64
	statsText string
}

func (m *Manager) collectInactive(now time.Time) []expiredSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := make([]expiredSession, 0)
	for key, session := range m.sessions {
		if now.Sub(session.lastActivityAt) > InactivityTimeout {
			expired = append(expired, expiredSession{
				chatID:    session.chatID,
				statsText: formatStats(session),
			})
			delete(m.sessions, key)
		}
	}
	return expired
}

func (m *Manager) nextQuestionLocked(session *Session) (Question, bool) {
	if session == nil || len(session.deck) == 0 {
		return Question{}, false
	}
	question := session.deck[0]
	session.deck = session.deck[1:]
	session.currentQuestion = &question
	session.currentResolved = false
	session.currentToken = uuid.NewString()
	return question, true
}

// buildDeck samples entries and turns each into a multiple-choice
// question with distractor headwords drawn from the rest of the
// collection.
func buildDeck(entries []vocab.Entry, limit int) ([]Question, error) {
	if len(entries) < OptionCount {
		return nil, ErrTooFewWords
	}

	sampled := sampleEntries(entries, limit)
	deck := make([]Question, 0, len(sampled))
	for _, entry := range sampled {
		deck = append(deck, buildQuestion(entry, entries))
	}
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck, nil
}

func sampleEntries(entries []vocab.Entry, limit int) []vocab.Entry {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}
	perm := rand.Perm(len(entries))
	selected := make([]vocab.Entry, 0, limit)
	for i := 0; i < limit; i++ {
		selected = append(selected, entries[perm[i]])
	}
	return selected
}

func buildQuestion(entry vocab.Entry, pool []vocab.Entry) Question {
	options := make([]string, 0, OptionCount)
	options = append(options, entry.Headword)
	for _, i := range rand.Perm(len(pool)) {
		if len(options) == OptionCount {
			break
		}
		if pool[i].Headword == entry.Headword {
			continue
		}
		options = append(options, pool[i].Headword)
	}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := 0
	for i, option := range options {
		if option == entry.Headword {
			correct = i
			break
		}
	}
	return Question{
		Prompt:       promptFor(entry),
		Options:      options,
		correctIndex: correct,
	}
}

// promptFor prefers the English definition; entries not yet enriched
// fall back to their example sentence with the headword blanked out.
func promptFor(entry vocab.Entry) string {
	if entry.EnglishDef != "" {
		return entry.EnglishDef
	}
	blank := strings.Repeat("_", len(entry.Headword))
	example := replaceFold(entry.Example, entry.Headword, blank)
	if example != entry.Example {
		return example
	}
	return entry.Example
}

// replaceFold replaces the first case-insensitive occurrence of old.
func replaceFold(text, old, replacement string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(old))
	if idx < 0 {
		return text
	}
	return text[:idx] + replacement + text[idx+len(old):]
}

func formatStats(session *Session) string {
	if session == nil {
		return "Quiz over!\nYou got 0 correct answers.\nAccuracy: 0% (0/0)"
	}
	accuracy := 0
	if session.attemptCount > 0 {
		accuracy = int(math.Round(float64(session.correctCount) * 100 / float64(session.attemptCount)))
	}
	return fmt.Sprintf(
		"Quiz over!\nYou got %d correct answers.\nAccuracy: %d%% (%d/%d)",
		session.correctCount,
		accuracy,
		session.correctCount,
		session.attemptCount,
	)
}
