package vocab

import (
	"errors"
	"strings"
	"sync"

	"github.com/minhtq/tg-vocab-bank/pkg/logger"
)

// CapturePlaceholderExample is used when the source body has no sentence
// containing the captured text.
const CapturePlaceholderExample = "Captured while watching content."

// Repository owns one learner's in-memory collection, enforces its
// invariants, and mirrors every successful mutation into the Store.
// Mutations never suspend while holding the lock, so two rapid mutations
// serialize in call order with no interleaving.
type Repository struct {
	userID int64
	store  Store
	notify func()

	mu      sync.Mutex
	entries []Entry
	pending map[int]struct{}
}

func newRepository(userID int64, store Store, notify func()) *Repository {
	if notify == nil {
		notify = func() {}
	}
	return &Repository{
		userID:  userID,
		store:   store,
		notify:  notify,
		pending: make(map[int]struct{}),
	}
}

// load reads the persisted blob. An absent or unparsable blob falls back
// to the seed collection instead of failing; corruption is logged loudly
// because it silently discards prior data.
func (r *Repository) load() {
	entries, err := r.store.Load(r.userID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		entries = SeedEntries()
	case errors.Is(err, ErrCorrupt):
		logger.Error("stored vocabulary bank is corrupt, falling back to seed collection; previous data is lost",
			"user_id", r.userID, "error", err)
		entries = SeedEntries()
	default:
		logger.Error("failed to load vocabulary bank, falling back to seed collection",
			"user_id", r.userID, "error", err)
		entries = SeedEntries()
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
}

// Entries returns a snapshot copy in display order (most recent first).
func (r *Repository) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneEntries(r.entries)
}

func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Entry returns the entry at index.
func (r *Repository) Entry(index int) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.entries) {
		return Entry{}, ErrIndexOutOfRange
	}
	entry := r.entries[index]
	entry.Synonyms = append([]string(nil), entry.Synonyms...)
	return entry, nil
}

// Add validates and prepends a new entry, then persists the collection.
func (r *Repository) Add(headword, example, englishDef, nativeDef string) error {
	headword = strings.TrimSpace(headword)
	example = strings.TrimSpace(example)
	if headword == "" || example == "" {
		return ErrEmptyField
	}

	r.mu.Lock()
	if r.indexOfLocked(headword) >= 0 {
		r.mu.Unlock()
		return ErrDuplicateHeadword
	}
	entry := Entry{
		Headword:   headword,
		Example:    example,
		EnglishDef: strings.TrimSpace(englishDef),
		NativeDef:  strings.TrimSpace(nativeDef),
		Version:    1,
	}
	r.entries = append([]Entry{entry}, r.entries...)
	if err := r.persistLocked("add"); err != nil {
		r.entries = r.entries[1:]
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

// Edit replaces the entry at index with the merged patch. Position is
// preserved and uniqueness is not re-checked, matching the manual edit
// flow where callers carry forward the fields they did not change.
func (r *Repository) Edit(index int, patch Patch) error {
	r.mu.Lock()
	if index < 0 || index >= len(r.entries) {
		r.mu.Unlock()
		return ErrIndexOutOfRange
	}
	previous := r.entries[index]
	merged := previous.applyPatch(patch)
	merged.Version = previous.Version + 1
	r.entries[index] = merged
	if err := r.persistLocked("edit"); err != nil {
		r.entries[index] = previous
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

// CaptureFromSelection turns a highlighted span of watched content into a
// new entry. The first sentence-like span of sourceBody containing the
// selection becomes the example; a placeholder is used when none matches.
func (r *Repository) CaptureFromSelection(text, sourceBody string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	r.mu.Lock()
	if r.indexOfLocked(text) >= 0 {
		r.mu.Unlock()
		return ErrDuplicateHeadword
	}
	example := firstSentenceContaining(sourceBody, text)
	if example == "" {
		example = CapturePlaceholderExample
	}
	entry := Entry{
		Headword: text,
		Example:  example,
		Version:  1,
	}
	r.entries = append([]Entry{entry}, r.entries...)
	if err := r.persistLocked("capture"); err != nil {
		r.entries = r.entries[1:]
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

// Search filters entries by case-insensitive substring match on the
// headword. The result is recomputed on every call, never cached.
func (r *Repository) Search(query string) []Entry {
	needle := strings.ToLower(strings.TrimSpace(query))

	r.mu.Lock()
	defer r.mu.Unlock()
	if needle == "" {
		return cloneEntries(r.entries)
	}
	var matched []Entry
	for _, entry := range r.entries {
		if strings.Contains(strings.ToLower(entry.Headword), needle) {
			entry.Synonyms = append([]string(nil), entry.Synonyms...)
			matched = append(matched, entry)
		}
	}
	return matched
}

// Clear removes every entry and persists the empty collection.
func (r *Repository) Clear() error {
	r.mu.Lock()
	previous := r.entries
	r.entries = nil
	if err := r.persistLocked("clear"); err != nil {
		r.entries = previous
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

// BeginEnrichment marks index pending and returns a snapshot of the entry
// for the lookup. A second call while pending is refused.
func (r *Repository) BeginEnrichment(index int) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.entries) {
		return Entry{}, ErrIndexOutOfRange
	}
	if _, inFlight := r.pending[index]; inFlight {
		return Entry{}, ErrEnrichmentPending
	}
	r.pending[index] = struct{}{}
	entry := r.entries[index]
	entry.Synonyms = append([]string(nil), entry.Synonyms...)
	return entry, nil
}

// FinishEnrichment resets the pending flag for index. It runs on both the
// success and the failure path so a failed lookup never leaves the index
// stuck pending.
func (r *Repository) FinishEnrichment(index int) {
	r.mu.Lock()
	delete(r.pending, index)
	r.mu.Unlock()
}

// EnrichmentPending reports whether a lookup is in flight for index.
func (r *Repository) EnrichmentPending(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, inFlight := r.pending[index]
	return inFlight
}

// ApplyEnrichment merges a lookup result into the entry at index. The
// merge is rejected when the entry's version moved past baseVersion, so a
// user edit racing a slow lookup is never silently overwritten.
func (r *Repository) ApplyEnrichment(index int, patch EnrichmentPatch, baseVersion uint64) error {
	r.mu.Lock()
	if index < 0 || index >= len(r.entries) {
		r.mu.Unlock()
		return ErrIndexOutOfRange
	}
	previous := r.entries[index]
	if previous.Version != baseVersion {
		r.mu.Unlock()
		return ErrStaleEnrichment
	}
	merged := previous.applyEnrichment(patch)
	merged.Version = previous.Version + 1
	r.entries[index] = merged
	if err := r.persistLocked("enrich"); err != nil {
		r.entries[index] = previous
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

func (r *Repository) indexOfLocked(headword string) int {
	for i, entry := range r.entries {
		if entry.Headword == headword {
			return i
		}
	}
	return -1
}

func (r *Repository) persistLocked(operation string) error {
	if err := r.store.Save(r.userID, r.entries); err != nil {
		logger.Error("failed to persist vocabulary bank",
			"user_id", r.userID, "operation", operation, "error", err)
		return err
	}
	return nil
}

// firstSentenceContaining finds the first span delimited by '.', '!', '?'
// or newline that contains text, compared case-insensitively.
func firstSentenceContaining(body, text string) string {
	needle := strings.ToLower(text)
	start := 0
	for i := 0; i <= len(body); i++ {
		if i < len(body) && !isSentenceDelimiter(body[i]) {
			continue
		}
		end := i
		if i < len(body) && body[i] != '\n' {
			end = i + 1 // keep the punctuation
		}
		sentence := strings.TrimSpace(body[start:end])
		if sentence != "" && strings.Contains(strings.ToLower(sentence), needle) {
			return sentence
		}
		start = i + 1
	}
	return ""
}

func isSentenceDelimiter(c byte) bool {
	return c == '.' || c == '!' || c == '?' || c == '\n'
}
