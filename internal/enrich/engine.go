// Package enrich adds machine-translated fields to stored records. Writes
// are strictly additive: original record fields are never overwritten.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nirobo/nirobo-crawler/internal/record"
)

// Translator is the external translation collaborator.
type Translator interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// translatedFields are the record fields the engine translates.
var translatedFields = []string{"title", "description"}

// Stats summarizes an enrichment run.
type Stats struct {
	Attempted int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// Engine runs detect+translate per text field with retry on transient
// failures.
type Engine struct {
	translator Translator
	policy     *RetryPolicy
	logger     *zap.Logger

	// sleep is swappable in tests so backoff delays can be observed
	// without waiting them out.
	sleep func(ctx context.Context, d time.Duration)
}

// NewEngine wires an enrichment Engine.
func NewEngine(translator Translator, policy *RetryPolicy, logger *zap.Logger) *Engine {
	if policy == nil {
		policy = NewRetryPolicy(0, 0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		translator: translator,
		policy:     policy,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Enrich returns a copy of rec with translated_<field>_<targetLang> set for
// each non-empty text field. Pre-existing fields are untouched; a field that
// could not be translated receives a typed failure sentinel instead of being
// omitted.
func (e *Engine) Enrich(ctx context.Context, rec record.Record, targetLang string) (record.Record, Stats) {
	out := rec.Clone()
	stats := Stats{}
	started := time.Now()

	for _, field := range translatedFields {
		text := fieldValue(rec, field)
		if text == "" {
			continue
		}
		stats.Attempted++
		translated, err := e.translateWithRetry(ctx, text, targetLang)
		if err != nil {
			stats.Failed++
			out.SetTranslation(field, targetLang, failureSentinel(err))
			e.logger.Warn("translation failed",
				zap.String("url", rec.URL),
				zap.String("field", field),
				zap.Error(err),
			)
			continue
		}
		stats.Succeeded++
		out.SetTranslation(field, targetLang, translated)
	}

	stats.Elapsed = time.Since(started)
	return out, stats
}

// Run enriches every record in sequence and returns aggregate stats.
func (e *Engine) Run(ctx context.Context, records []record.Record, targetLang string) ([]record.Record, Stats) {
	total := Stats{}
	started := time.Now()
	out := make([]record.Record, 0, len(records))

	for i, rec := range records {
		e.logger.Info("enriching record",
			zap.Int("index", i+1),
			zap.Int("total", len(records)),
			zap.String("url", rec.URL),
		)
		enriched, stats := e.Enrich(ctx, rec, targetLang)
		out = append(out, enriched)
		total.Attempted += stats.Attempted
		total.Succeeded += stats.Succeeded
		total.Failed += stats.Failed
	}

	total.Elapsed = time.Since(started)
	return out, total
}

// translateWithRetry performs detect+translate, retrying transient failures
// with bounded jittered backoff. Non-transient errors return immediately.
func (e *Engine) translateWithRetry(ctx context.Context, text, targetLang string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < e.policy.MaxAttempts(); attempt++ {
		if attempt > 0 {
			e.sleep(ctx, e.policy.Backoff(attempt-1))
		}
		TotalTranslationCalls.Inc()

		translated, err := e.translateOnce(ctx, text, targetLang)
		if err == nil {
			return translated, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return "", err
		}
		TotalTranslationRetries.Inc()
	}
	return "", lastErr
}

func (e *Engine) translateOnce(ctx context.Context, text, targetLang string) (string, error) {
	sourceLang, err := e.translator.DetectLanguage(ctx, text)
	if err != nil {
		return "", err
	}
	return e.translator.Translate(ctx, text, sourceLang, targetLang)
}

func fieldValue(rec record.Record, field string) string {
	switch field {
	case "title":
		return rec.Title
	case "description":
		return rec.Description
	default:
		return ""
	}
}

// failureSentinel maps an exhausted or permanent error to its typed
// sentinel so callers can distinguish the failure mode from stored data.
func failureSentinel(err error) string {
	switch {
	case IsRateLimited(err):
		return SentinelRateLimited
	case !IsTransient(err):
		return SentinelTranslationError
	default:
		return SentinelFailed
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
