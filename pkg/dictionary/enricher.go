package dictionary

import (
	"context"
	"errors"
	"time"

	"github.com/minhtq/tg-vocab-bank/pkg/config"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// ErrAlreadyEnriched means the entry already carries an English
// definition and should not be looked up again.
var ErrAlreadyEnriched = errors.New("entry already has a definition")

// Enricher drives asynchronous dictionary lookups against a learner's
// repository. The repository tracks the per-index pending flag; the
// enricher guarantees the flag is cleared on every path.
type Enricher struct {
	client *Client
}

func NewEnricher(client *Client) *Enricher {
	return &Enricher{client: client}
}

var Default *Enricher

// Init builds the process-wide enricher from config.
func Init(cfg config.DictionaryConfig) {
	Default = NewEnricher(NewClient(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second))
}

// Enrich looks up the entry at index and merges the result. A failed or
// not-found lookup leaves the entry untouched and is logged only; the
// user can re-trigger enrichment later.
func (e *Enricher) Enrich(ctx context.Context, repo *vocab.Repository, index int) error {
	entry, err := repo.BeginEnrichment(index)
	if err != nil {
		return err
	}
	defer repo.FinishEnrichment(index)

	if entry.EnglishDef != "" {
		return ErrAlreadyEnriched
	}

	patch, err := e.client.Lookup(ctx, entry.Headword)
	if err != nil {
		logger.Warn("dictionary lookup failed", "headword", entry.Headword, "error", err)
		return err
	}

	if err := repo.ApplyEnrichment(index, patch, entry.Version); err != nil {
		if errors.Is(err, vocab.ErrStaleEnrichment) {
			logger.Warn("discarding enrichment, entry was edited during lookup",
				"headword", entry.Headword, "index", index)
		}
		return err
	}
	return nil
}
