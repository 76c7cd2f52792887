package watch

import "sync"

// Sources tracks which item each chat currently has open. Plain text
// sent while a source is open is treated as a selection captured from
// its body.
type Sources struct {
	mu     sync.Mutex
	active map[int64]Item
}

func NewSources() *Sources {
	return &Sources{active: make(map[int64]Item)}
}

var DefaultSources = NewSources()

func ResetDefaultSources() {
	DefaultSources = NewSources()
}

// Open marks the item as the chat's active capture source.
func (s *Sources) Open(chatID int64, item Item) {
	s.mu.Lock()
	s.active[chatID] = item
	s.mu.Unlock()
}

// Active returns the chat's open item, if any.
func (s *Sources) Active(chatID int64) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.active[chatID]
	return item, ok
}

// Close clears the chat's active source.
func (s *Sources) Close(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[chatID]; !ok {
		return false
	}
	delete(s.active, chatID)
	return true
}
