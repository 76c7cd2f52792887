package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// ErrLookupFailed covers network failures, non-200 responses and
// unparsable payloads. The caller treats all of them as "no definition
// found" rather than an error worth surfacing.
var ErrLookupFailed = errors.New("dictionary lookup failed")

const noDefinitionFallback = "No definition available"

// Doer abstracts the HTTP transport so tests can record requests and
// serve canned payloads.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries a dictionaryapi.dev-style lookup service.
type Client struct {
	baseURL    string
	httpClient Doer
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func NewClientWithDoer(baseURL string, doer Doer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: doer,
	}
}

type apiDefinition struct {
	Definition string `json:"definition"`
}

type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
	Synonyms     []string        `json:"synonyms"`
}

type apiPhonetic struct {
	Text string `json:"text"`
}

type apiEntry struct {
	Meanings  []apiMeaning  `json:"meanings"`
	Phonetics []apiPhonetic `json:"phonetics"`
}

// Lookup fetches the headword (lower-cased into the URL path) and
// normalizes the first result into an enrichment patch.
func (c *Client) Lookup(ctx context.Context, headword string) (vocab.EnrichmentPatch, error) {
	lookupURL := c.baseURL + "/" + url.PathEscape(strings.ToLower(headword))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return vocab.EnrichmentPatch{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return vocab.EnrichmentPatch{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return vocab.EnrichmentPatch{}, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var payload []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return vocab.EnrichmentPatch{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if len(payload) == 0 {
		return vocab.EnrichmentPatch{}, fmt.Errorf("%w: empty payload", ErrLookupFailed)
	}

	return buildPatch(payload[0]), nil
}

// buildPatch flattens the dictionary payload the same way on every call:
// identical payloads always produce identical patches.
func buildPatch(entry apiEntry) vocab.EnrichmentPatch {
	var patch vocab.EnrichmentPatch

	parts := make([]string, 0, len(entry.Meanings))
	for _, meaning := range entry.Meanings {
		definition := noDefinitionFallback
		if len(meaning.Definitions) > 0 && meaning.Definitions[0].Definition != "" {
			definition = meaning.Definitions[0].Definition
		}
		parts = append(parts, meaning.PartOfSpeech+": "+definition)
	}
	patch.EnglishDef = strings.Join(parts, "; ")

	if len(entry.Phonetics) > 0 {
		patch.Pronunciation = entry.Phonetics[0].Text
	}
	if len(entry.Meanings) > 0 {
		patch.PartOfSpeech = entry.Meanings[0].PartOfSpeech
	}

	for _, meaning := range entry.Meanings {
		for _, synonym := range meaning.Synonyms {
			if len(patch.Synonyms) == vocab.SynonymLimit {
				return patch
			}
			patch.Synonyms = append(patch.Synonyms, synonym)
		}
	}
	return patch
}
