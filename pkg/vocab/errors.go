package vocab

import "errors"

var (
	// ErrDuplicateHeadword rejects an add or capture whose headword is
	// already present. Comparison is a case-sensitive exact match.
	ErrDuplicateHeadword = errors.New("headword already exists")

	// ErrEmptyField rejects a manual add with a blank headword or example.
	ErrEmptyField = errors.New("headword and example sentence are required")

	// ErrEmptyText rejects a capture with a blank selection.
	ErrEmptyText = errors.New("selected text is empty")

	// ErrIndexOutOfRange is a programming-contract violation, not a user
	// condition. Handlers log it as a defect.
	ErrIndexOutOfRange = errors.New("entry index out of range")

	// ErrStaleEnrichment means the entry was edited while its enrichment
	// lookup was in flight; the stale patch is discarded.
	ErrStaleEnrichment = errors.New("entry changed while enrichment was in flight")

	// ErrEnrichmentPending means an enrichment is already running for the index.
	ErrEnrichmentPending = errors.New("enrichment already in progress for this entry")

	// ErrNotFound means no bank blob has been stored for the learner yet.
	ErrNotFound = errors.New("no stored vocabulary bank")

	// ErrCorrupt means the stored blob failed to parse. The repository
	// recovers by falling back to the seed collection.
	ErrCorrupt = errors.New("stored vocabulary bank is corrupt")
)
