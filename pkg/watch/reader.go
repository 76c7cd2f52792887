package watch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

var ErrFetchFailed = errors.New("failed to fetch readable article")

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Reader fetches web pages and extracts their readable text so
// articles can be opened for selection capture like catalog items.
type Reader struct {
	httpClient Doer
}

func NewReader(client Doer) *Reader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Reader{httpClient: client}
}

var DefaultReader = NewReader(nil)

// FetchArticle downloads the page and returns it as a capture-ready item.
func (r *Reader) FetchArticle(ctx context.Context, pageURL string) (Item, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Item{}, fmt.Errorf("%w: invalid URL %q", ErrFetchFailed, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Item{}, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	body := strings.TrimSpace(article.TextContent)
	if body == "" {
		return Item{}, fmt.Errorf("%w: no readable text at %q", ErrFetchFailed, pageURL)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = pageURL
	}
	return Item{
		Type:  "article",
		Title: title,
		URL:   pageURL,
		Body:  body,
	}, nil
}
