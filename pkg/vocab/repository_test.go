package vocab

import (
	"errors"
	"reflect"
	"testing"

	"github.com/minhtq/tg-vocab-bank/pkg/logger"
)

type fakeStore struct {
	banks     map[int64][]Entry
	loadErr   error
	saveErr   error
	saveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{banks: make(map[int64][]Entry)}
}

func (s *fakeStore) Load(userID int64) ([]Entry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	entries, ok := s.banks[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEntries(entries), nil
}

func (s *fakeStore) Save(userID int64, entries []Entry) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.banks[userID] = cloneEntries(entries)
	return nil
}

func newTestRepository(t *testing.T, store Store) *Repository {
	t.Helper()
	logger.SetLogLevel(logger.ERROR)
	t.Cleanup(func() { logger.SetLogLevel(logger.INFO) })
	repo := newRepository(7, store, nil)
	repo.load()
	return repo
}

func TestLoadSeedsWhenAbsent(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())

	entries := repo.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 seed entries, got %d", len(entries))
	}
	if entries[0].Headword != "hello" {
		t.Errorf("unexpected first seed entry: %q", entries[0].Headword)
	}
}

func TestLoadSeedsWhenCorrupt(t *testing.T) {
	store := newFakeStore()
	store.loadErr = ErrCorrupt
	repo := newTestRepository(t, store)

	if repo.Count() != 4 {
		t.Fatalf("expected seed fallback on corrupt blob, got %d entries", repo.Count())
	}
}

func TestAddPrependsAndPersists(t *testing.T) {
	store := newFakeStore()
	repo := newTestRepository(t, store)
	before := repo.Count()

	if err := repo.Add("serendipity", "Finding it was pure serendipity.", "", "tình cờ"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	entries := repo.Entries()
	if len(entries) != before+1 {
		t.Fatalf("expected count %d, got %d", before+1, len(entries))
	}
	if entries[0].Headword != "serendipity" {
		t.Errorf("new entry is not first, got %q", entries[0].Headword)
	}
	if entries[0].NativeDef != "tình cờ" {
		t.Errorf("native definition not stored, got %q", entries[0].NativeDef)
	}
	if store.saveCalls == 0 {
		t.Error("Add did not persist the collection")
	}

	persisted, err := store.Load(7)
	if err != nil {
		t.Fatalf("failed to load persisted bank: %v", err)
	}
	if !reflect.DeepEqual(persisted, entries) {
		t.Error("persisted collection does not mirror the in-memory one")
	}
}

func TestAddRejectsEmptyFields(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())

	cases := []struct {
		headword string
		example  string
	}{
		{headword: "", example: "Some example."},
		{headword: "word", example: ""},
		{headword: "   ", example: "Some example."},
		{headword: "word", example: "  "},
	}
	for _, tc := range cases {
		if err := repo.Add(tc.headword, tc.example, "", ""); !errors.Is(err, ErrEmptyField) {
			t.Errorf("Add(%q, %q) = %v, want ErrEmptyField", tc.headword, tc.example, err)
		}
	}
}

func TestAddRejectsDuplicateHeadword(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())
	before := repo.Entries()

	err := repo.Add("hello", "Another hello example.", "", "")
	if !errors.Is(err, ErrDuplicateHeadword) {
		t.Fatalf("expected ErrDuplicateHeadword, got %v", err)
	}
	if !reflect.DeepEqual(repo.Entries(), before) {
		t.Error("collection changed after a rejected add")
	}
}

func TestAddDuplicateCheckIsCaseSensitive(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())

	// "Hello" and "hello" are distinct entries; dedupe is an exact match.
	if err := repo.Add("Hello", "Hello with a capital H.", "", ""); err != nil {
		t.Fatalf("expected case-variant headword to be accepted, got %v", err)
	}
}

func TestAddRevertsOnPersistFailure(t *testing.T) {
	store := newFakeStore()
	repo := newTestRepository(t, store)
	before := repo.Count()

	store.saveErr = errors.New("disk full")
	if err := repo.Add("newword", "A new word example.", "", ""); err == nil {
		t.Fatal("expected persist error to propagate")
	}
	if repo.Count() != before {
		t.Errorf("in-memory collection diverged from store after failed save")
	}
}

func TestEditReplacesAndKeepsPosition(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())
	original, err := repo.Entry(1)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}

	newDef := "the earth and all its inhabitants"
	if err := repo.Edit(1, Patch{EnglishDef: &newDef}); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}

	edited, err := repo.Entry(1)
	if err != nil {
		t.Fatalf("failed to read edited entry: %v", err)
	}
	if edited.Headword != original.Headword {
		t.Errorf("edit moved the entry, headword now %q", edited.Headword)
	}
	if edited.EnglishDef != newDef {
		t.Errorf("definition not updated, got %q", edited.EnglishDef)
	}
	if edited.Version != original.Version+1 {
		t.Errorf("version not bumped, got %d", edited.Version)
	}
}

func TestEditIndexOutOfRange(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())

	if err := repo.Edit(99, Patch{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := repo.Edit(-1, Patch{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange for negative index, got %v", err)
	}
}

func TestCaptureFromSelection(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		body        string
		wantExample string
	}{
		{
			name:        "sentence match",
			text:        "friend",
			body:        "It's been a long day without you, my friend. And I'll tell you all about it.",
			wantExample: "It's been a long day without you, my friend.",
		},
		{
			name:        "case-insensitive match",
			text:        "LONG",
			body:        "It's been a long day without you, my friend. And I'll tell you all about it.",
			wantExample: "It's been a long day without you, my friend.",
		},
		{
			name:        "newline-delimited lyrics",
			text:        "again",
			body:        "How you like that\nWhen I see you again\nLa la la",
			wantExample: "When I see you again",
		},
		{
			name:        "no match falls back to placeholder",
			text:        "missing",
			body:        "Nothing here matches. Not even close!",
			wantExample: CapturePlaceholderExample,
		},
		{
			name:        "selection trimmed before matching",
			text:        "  round  ",
			body:        "The world is round. The sky is blue.",
			wantExample: "The world is round.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newTestRepository(t, newFakeStore())
			if err := repo.CaptureFromSelection(tc.text, tc.body); err != nil {
				t.Fatalf("CaptureFromSelection returned error: %v", err)
			}
			entries := repo.Entries()
			if entries[0].Example != tc.wantExample {
				t.Errorf("example = %q, want %q", entries[0].Example, tc.wantExample)
			}
		})
	}
}

func TestCaptureRejectsDuplicateWithoutMutating(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())
	before := repo.Entries()

	err := repo.CaptureFromSelection("hello", "She said hello to everyone.")
	if !errors.Is(err, ErrDuplicateHeadword) {
		t.Fatalf("expected ErrDuplicateHeadword, got %v", err)
	}
	if !reflect.DeepEqual(repo.Entries(), before) {
		t.Error("collection changed after a rejected capture")
	}
}

func TestCaptureRejectsEmptySelection(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())

	if err := repo.CaptureFromSelection("   ", "Some body."); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())

	matches := repo.Search("WOR")
	if len(matches) != 1 || matches[0].Headword != "world" {
		t.Fatalf("unexpected search result: %+v", matches)
	}

	all := repo.Search("")
	if len(all) != repo.Count() {
		t.Fatalf("empty query should return everything, got %d of %d", len(all), repo.Count())
	}

	none := repo.Search("zzz")
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}

func TestClear(t *testing.T) {
	store := newFakeStore()
	repo := newTestRepository(t, store)

	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if repo.Count() != 0 {
		t.Fatalf("expected empty collection, got %d entries", repo.Count())
	}
	persisted, err := store.Load(7)
	if err != nil {
		t.Fatalf("failed to load persisted bank: %v", err)
	}
	if len(persisted) != 0 {
		t.Fatalf("expected empty persisted collection, got %d", len(persisted))
	}
}

func TestEnrichmentPendingLifecycle(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())

	entry, err := repo.BeginEnrichment(0)
	if err != nil {
		t.Fatalf("BeginEnrichment returned error: %v", err)
	}
	if entry.Headword != "hello" {
		t.Errorf("unexpected snapshot entry: %q", entry.Headword)
	}
	if !repo.EnrichmentPending(0) {
		t.Error("index not marked pending")
	}

	if _, err := repo.BeginEnrichment(0); !errors.Is(err, ErrEnrichmentPending) {
		t.Fatalf("expected ErrEnrichmentPending for second call, got %v", err)
	}

	repo.FinishEnrichment(0)
	if repo.EnrichmentPending(0) {
		t.Error("pending flag not cleared")
	}
	if _, err := repo.BeginEnrichment(0); err != nil {
		t.Fatalf("expected enrichment to be allowed again, got %v", err)
	}
}

func TestApplyEnrichment(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())
	entry, err := repo.BeginEnrichment(0)
	if err != nil {
		t.Fatalf("BeginEnrichment returned error: %v", err)
	}

	patch := EnrichmentPatch{
		EnglishDef:    "exclamation: used as a greeting",
		Pronunciation: "həˈləʊ",
		PartOfSpeech:  "exclamation",
		Synonyms:      []string{"hi", "greetings", "hey", "howdy", "hiya", "yo"},
	}
	if err := repo.ApplyEnrichment(0, patch, entry.Version); err != nil {
		t.Fatalf("ApplyEnrichment returned error: %v", err)
	}

	enriched, err := repo.Entry(0)
	if err != nil {
		t.Fatalf("failed to read enriched entry: %v", err)
	}
	if enriched.EnglishDef != patch.EnglishDef {
		t.Errorf("definition not merged, got %q", enriched.EnglishDef)
	}
	if len(enriched.Synonyms) != SynonymLimit {
		t.Errorf("synonyms not capped at %d, got %d", SynonymLimit, len(enriched.Synonyms))
	}
	if enriched.Example != entry.Example {
		t.Errorf("enrichment touched the example sentence: %q", enriched.Example)
	}
}

func TestApplyEnrichmentIdempotentOnUntouchedFields(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())
	patch := EnrichmentPatch{
		EnglishDef:    "noun: the earth",
		Pronunciation: "wɜːld",
		PartOfSpeech:  "noun",
		Synonyms:      []string{"globe", "earth"},
	}

	entry, err := repo.BeginEnrichment(1)
	if err != nil {
		t.Fatalf("BeginEnrichment returned error: %v", err)
	}
	if err := repo.ApplyEnrichment(1, patch, entry.Version); err != nil {
		t.Fatalf("first ApplyEnrichment returned error: %v", err)
	}
	repo.FinishEnrichment(1)
	first, err := repo.Entry(1)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}

	if err := repo.ApplyEnrichment(1, patch, first.Version); err != nil {
		t.Fatalf("second ApplyEnrichment returned error: %v", err)
	}
	second, err := repo.Entry(1)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}

	second.Version = first.Version
	if !reflect.DeepEqual(first, second) {
		t.Errorf("applying the same patch twice changed the entry:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestApplyEnrichmentRejectsStalePatch(t *testing.T) {
	repo := newTestRepository(t, newFakeStore())
	entry, err := repo.BeginEnrichment(0)
	if err != nil {
		t.Fatalf("BeginEnrichment returned error: %v", err)
	}

	// The user edits the entry while the lookup is in flight.
	newExample := "Hello there, General Kenobi."
	if err := repo.Edit(0, Patch{Example: &newExample}); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}

	err = repo.ApplyEnrichment(0, EnrichmentPatch{EnglishDef: "stale"}, entry.Version)
	if !errors.Is(err, ErrStaleEnrichment) {
		t.Fatalf("expected ErrStaleEnrichment, got %v", err)
	}
	current, err := repo.Entry(0)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}
	if current.EnglishDef == "stale" {
		t.Error("stale enrichment overwrote the user's edit")
	}
	if current.Example != newExample {
		t.Errorf("user edit lost, example is %q", current.Example)
	}
}

func TestServiceSharesOneRepositoryPerLearner(t *testing.T) {
	svc := NewService(newFakeStore())

	first := svc.Bank(1)
	second := svc.Bank(1)
	if first != second {
		t.Fatal("expected the same repository instance for one learner")
	}
	other := svc.Bank(2)
	if other == first {
		t.Fatal("expected distinct repositories for distinct learners")
	}
}

func TestServiceNotifiesSubscribersOnMutation(t *testing.T) {
	svc := NewService(newFakeStore())
	var notified []int64
	svc.Subscribe(func(userID int64) { notified = append(notified, userID) })

	repo := svc.Bank(42)
	if err := repo.Add("notify", "Subscribers hear about this one.", "", ""); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if len(notified) != 1 || notified[0] != 42 {
		t.Fatalf("unexpected notifications: %v", notified)
	}
}

func TestServiceFansOutToEverySubscriber(t *testing.T) {
	svc := NewService(newFakeStore())
	var first, second []int64
	svc.Subscribe(func(userID int64) {
		first = append(first, userID)
		// Subscribing from inside a callback must not deadlock.
		svc.Subscribe(func(int64) {})
	})
	svc.Subscribe(func(userID int64) { second = append(second, userID) })

	repo := svc.Bank(7)
	if err := repo.Add("fanout", "Both subscribers hear about this one.", "", ""); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if len(first) != 1 || first[0] != 7 {
		t.Fatalf("first subscriber notifications: %v", first)
	}
	if len(second) != 1 || second[0] != 7 {
		t.Fatalf("second subscriber notifications: %v", second)
	}
}
