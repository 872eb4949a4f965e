package crawler

import (
	"sync/atomic"
	"time"
)

// Progress tracks crawl counters for logging and the status endpoint. It is
// observability only; the engine never branches on these values.
type Progress struct {
	runID     string
	startedAt time.Time

	crawled  atomic.Int64
	failed   atomic.Int64
	skipped  atomic.Int64
	enqueued atomic.Int64
}

// Snapshot is a point-in-time copy of the crawl counters.
type Snapshot struct {
	RunID          string  `json:"run_id"`
	StartedAt      string  `json:"started_at"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	PagesCrawled   int64   `json:"pages_crawled"`
	PagesFailed    int64   `json:"pages_failed"`
	LinksSkipped   int64   `json:"links_skipped"`
	LinksEnqueued  int64   `json:"links_enqueued"`
}

// NewProgress starts tracking a crawl run.
func NewProgress(runID string) *Progress {
	return &Progress{runID: runID, startedAt: time.Now().UTC()}
}

// Snapshot returns the current counter values.
func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		RunID:          p.runID,
		StartedAt:      p.startedAt.Format(time.RFC3339),
		ElapsedSeconds: time.Since(p.startedAt).Seconds(),
		PagesCrawled:   p.crawled.Load(),
		PagesFailed:    p.failed.Load(),
		LinksSkipped:   p.skipped.Load(),
		LinksEnqueued:  p.enqueued.Load(),
	}
}
