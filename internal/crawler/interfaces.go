package crawler

import (
	"context"

	"github.com/nirobo/nirobo-crawler/internal/extract"
	"github.com/nirobo/nirobo-crawler/internal/record"
)

// Page is the raw result of fetching a URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Fetcher retrieves a page. Fetch failures are not retried by the engine;
// the page is counted failed and the crawl continues.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Extractor derives a record and outbound link candidates from markup.
type Extractor interface {
	Extract(pageURL string, markup []byte) (extract.Result, error)
}

// Store merges extracted records into the persisted collection.
type Store interface {
	Merge(rec record.Record) error
}
