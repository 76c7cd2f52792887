package vocab

import "sync"

// Service hands out the single Repository instance for each learner so
// every surface (bank listing, dashboard summary, flashcard snapshot)
// reads one consistently-updated collection instead of loading its own
// copy from storage.
type Service struct {
	store Store

	mu    sync.Mutex
	banks map[int64]*Repository
	subs  []func(userID int64)
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		banks: make(map[int64]*Repository),
	}
}

var DefaultService = NewService(NewGormStore())

func ResetDefaultService() {
	DefaultService = NewService(NewGormStore())
}

// Bank returns the learner's repository, loading it on first use.
func (s *Service) Bank(userID int64) *Repository {
	s.mu.Lock()
	if repo, ok := s.banks[userID]; ok {
		s.mu.Unlock()
		return repo
	}
	repo := newRepository(userID, s.store, func() { s.notifySubscribers(userID) })
	repo.load()
	s.banks[userID] = repo
	s.mu.Unlock()
	return repo
}

// Subscribe registers a callback fired after every successful mutation of
// any learner's collection.
func (s *Service) Subscribe(fn func(userID int64)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Service) notifySubscribers(userID int64) {
	s.mu.Lock()
	subs := make([]func(int64), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(userID)
	}
}
