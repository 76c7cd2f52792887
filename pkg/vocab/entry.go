package vocab

// SynonymLimit caps how many synonyms an enrichment may attach to an entry.
const SynonymLimit = 5

// Entry is one learner-collected word or phrase with its metadata.
type Entry struct {
	Headword      string   `json:"headword"`
	Example       string   `json:"example"`
	EnglishDef    string   `json:"english_def,omitempty"`
	NativeDef     string   `json:"native_def,omitempty"`
	Pronunciation string   `json:"pronunciation,omitempty"`
	PartOfSpeech  string   `json:"part_of_speech,omitempty"`
	Synonyms      []string `json:"synonyms,omitempty"`

	// Version increments on every write to the entry. Enrichment patches
	// record the version they were computed against and are rejected when
	// it has moved on.
	Version uint64 `json:"version"`
}

// Patch is a partial entry for whole-entry edits. Nil fields keep the
// current value.
type Patch struct {
	Headword   *string
	Example    *string
	EnglishDef *string
	NativeDef  *string
}

func (e Entry) applyPatch(p Patch) Entry {
	if p.Headword != nil {
		e.Headword = *p.Headword
	}
	if p.Example != nil {
		e.Example = *p.Example
	}
	if p.EnglishDef != nil {
		e.EnglishDef = *p.EnglishDef
	}
	if p.NativeDef != nil {
		e.NativeDef = *p.NativeDef
	}
	return e
}

// EnrichmentPatch carries the dictionary-sourced fields merged into an
// entry when a lookup succeeds.
type EnrichmentPatch struct {
	EnglishDef    string
	Pronunciation string
	PartOfSpeech  string
	Synonyms      []string
}

func (e Entry) applyEnrichment(p EnrichmentPatch) Entry {
	e.EnglishDef = p.EnglishDef
	e.Pronunciation = p.Pronunciation
	e.PartOfSpeech = p.PartOfSpeech
	synonyms := p.Synonyms
	if len(synonyms) > SynonymLimit {
		synonyms = synonyms[:SynonymLimit]
	}
	e.Synonyms = append([]string(nil), synonyms...)
	return e
}

func cloneEntries(entries []Entry) []Entry {
	cloned := make([]Entry, len(entries))
	copy(cloned, entries)
	for i := range cloned {
		cloned[i].Synonyms = append([]string(nil), cloned[i].Synonyms...)
	}
	return cloned
}
