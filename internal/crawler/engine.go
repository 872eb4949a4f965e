// Package crawler implements the crawl orchestrator: a bounded worker pool
// that drives fetch, extraction, persistence, and link discovery over URLs
// admitted by the Frontier.
package crawler

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nirobo/nirobo-crawler/internal/config"
)

// Engine coordinates the Frontier, Fetcher, Extractor, and Store for one
// crawl run. Each URL travels fetch -> extract -> persist -> enqueue-links
// independently; no ordering is guaranteed between pages.
type Engine struct {
	cfg       config.CrawlerConfig
	frontier  *Frontier
	fetcher   Fetcher
	extractor Extractor
	store     Store
	progress  *Progress
	logger    *zap.Logger

	queue   chan string
	pending sync.WaitGroup
}

// NewEngine wires an Engine from its collaborators.
func NewEngine(
	cfg config.CrawlerConfig,
	frontier *Frontier,
	fetcher Fetcher,
	extractor Extractor,
	store Store,
	progress *Progress,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = NewProgress("")
	}
	return &Engine{
		cfg:       cfg,
		frontier:  frontier,
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
		progress:  progress,
		logger:    logger,
	}
}

// Run crawls from the configured seeds until the frontier queue drains, the
// capacity ceiling stops new dispatch, or ctx is canceled. Cancellation
// stops new dispatch and lets in-flight pages finish unwinding; it never
// leaves a partially written record behind because only fully formed
// records reach the store.
func (e *Engine) Run(ctx context.Context) error {
	// The frontier admits at most MaxPages URLs, so the buffer can hold
	// every URL that will ever be enqueued and sends never block.
	e.queue = make(chan string, e.cfg.MaxPages)

	for _, seed := range e.cfg.Seeds {
		e.enqueue(seed)
	}

	var workers sync.WaitGroup
	for i := 0; i < e.cfg.Concurrency; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			e.runWorker(ctx)
		}()
	}

	go func() {
		e.pending.Wait()
		close(e.queue)
	}()

	workers.Wait()

	e.logger.Info("crawl finished",
		zap.Int("visited", e.frontier.VisitedCount()),
		zap.Int64("pages_crawled", e.progress.Snapshot().PagesCrawled),
	)
	return ctx.Err()
}

// enqueue admits rawURL through the frontier and schedules it. The admit
// check and visited-mark are one atomic step, so a URL is dispatched at
// most once across all workers.
func (e *Engine) enqueue(rawURL string) {
	if e.frontier.AtCapacity() {
		return
	}
	if normalized, err := NormalizeURL(rawURL); err == nil {
		rawURL = normalized
	}
	if !e.frontier.Admit(rawURL) {
		TotalLinksSkipped.Inc()
		e.progress.skipped.Add(1)
		return
	}
	TotalLinksEnqueued.Inc()
	e.progress.enqueued.Add(1)
	e.pending.Add(1)
	e.queue <- rawURL
}

func (e *Engine) runWorker(ctx context.Context) {
	for rawURL := range e.queue {
		// After cancellation, drain remaining items without processing so
		// the pending count reaches zero and the queue closes.
		if ctx.Err() == nil {
			e.process(ctx, rawURL)
		}
		e.pending.Done()
	}
}

// process runs one URL through the pipeline. Failures are page-local: the
// page contributes nothing, and the crawl continues.
func (e *Engine) process(ctx context.Context, rawURL string) {
	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		TotalPagesFailed.Inc()
		e.progress.failed.Add(1)
		e.logger.Warn("fetch failed", zap.String("url", rawURL), zap.Error(err))
		return
	}
	if page.StatusCode != 200 || len(page.Body) == 0 {
		TotalPagesFailed.Inc()
		e.progress.failed.Add(1)
		e.logger.Warn("skipping response",
			zap.String("url", rawURL), zap.Int("status_code", page.StatusCode))
		return
	}

	result, err := e.extractor.Extract(rawURL, page.Body)
	if err != nil {
		TotalPagesFailed.Inc()
		e.progress.failed.Add(1)
		e.logger.Warn("extraction failed", zap.String("url", rawURL), zap.Error(err))
		return
	}

	if err := e.store.Merge(result.Record); err != nil {
		// The in-memory record is lost for this cycle; the crawl goes on.
		TotalPagesFailed.Inc()
		e.progress.failed.Add(1)
		e.logger.Error("persist failed", zap.String("url", rawURL), zap.Error(err))
	} else {
		TotalRecordsMerged.Inc()
		TotalPagesCrawled.Inc()
		e.progress.crawled.Add(1)
		e.logger.Info("page persisted",
			zap.String("url", rawURL),
			zap.String("title", result.Record.Title),
			zap.Int("links", len(result.Links)),
		)
	}

	for _, link := range result.Links {
		if e.frontier.AtCapacity() {
			return
		}
		e.enqueue(link)
	}
}
