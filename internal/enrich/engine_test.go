package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/nirobo/nirobo-crawler/internal/record"
)

// scriptedTranslator fails the first `fails` translate calls with err, then
// succeeds by prefixing the target language.
type scriptedTranslator struct {
	mu      sync.Mutex
	fails   int
	err     error
	detects int
	calls   int
}

func (s *scriptedTranslator) DetectLanguage(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detects++
	return "en", nil
}

func (s *scriptedTranslator) Translate(_ context.Context, text, _, targetLang string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.fails {
		return "", s.err
	}
	return targetLang + ":" + text, nil
}

func rateLimitErr() error {
	return &googleapi.Error{Code: 429, Message: "rate limit exceeded"}
}

func authErr() error {
	return &googleapi.Error{Code: 401, Message: "invalid credentials"}
}

// newTestEngine swaps the sleeper so tests observe delays without waiting.
func newTestEngine(translator Translator, policy *RetryPolicy) (*Engine, *[]time.Duration) {
	e := NewEngine(translator, policy, nil)
	delays := &[]time.Duration{}
	e.sleep = func(_ context.Context, d time.Duration) {
		*delays = append(*delays, d)
	}
	return e, delays
}

func sampleRecord() record.Record {
	return record.Record{
		URL:         "https://www.thedailystar.net/news/flood",
		Title:       "Flood Update",
		Description: "Rivers keep rising in the northern districts.",
		Image:       "https://cdn.example/f.jpg",
		Tags:        []string{"news", "bangladesh"},
		Source:      "The Daily Star",
		Timestamp:   "2025-06-01T12:00:00Z",
	}
}

func TestEnrichTranslatesBothFields(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(&scriptedTranslator{}, NewRetryPolicy(3, time.Millisecond, time.Second))

	out, stats := e.Enrich(context.Background(), sampleRecord(), "bn")

	title, ok := out.Translation("title", "bn")
	require.True(t, ok)
	require.Equal(t, "bn:Flood Update", title)
	desc, ok := out.Translation("description", "bn")
	require.True(t, ok)
	require.Equal(t, "bn:Rivers keep rising in the northern districts.", desc)

	require.Equal(t, 2, stats.Attempted)
	require.Equal(t, 2, stats.Succeeded)
	require.Zero(t, stats.Failed)
}

func TestEnrichIsAdditiveOnly(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(&scriptedTranslator{}, NewRetryPolicy(3, time.Millisecond, time.Second))

	original := sampleRecord()
	out, _ := e.Enrich(context.Background(), original, "bn")

	// Every pre-existing field is byte-identical to before.
	require.Equal(t, original.URL, out.URL)
	require.Equal(t, original.Title, out.Title)
	require.Equal(t, original.Description, out.Description)
	require.Equal(t, original.Image, out.Image)
	require.Equal(t, original.Tags, out.Tags)
	require.Equal(t, original.Source, out.Source)
	require.Equal(t, original.Timestamp, out.Timestamp)
	require.Equal(t, original.Approved, out.Approved)

	// The input record itself is untouched.
	require.Nil(t, original.Translations)
}

func TestEnrichSkipsEmptyFields(t *testing.T) {
	t.Parallel()
	tr := &scriptedTranslator{}
	e, _ := newTestEngine(tr, NewRetryPolicy(3, time.Millisecond, time.Second))

	rec := sampleRecord()
	rec.Description = ""
	out, stats := e.Enrich(context.Background(), rec, "bn")

	require.Equal(t, 1, stats.Attempted)
	_, ok := out.Translation("description", "bn")
	require.False(t, ok, "empty source field must not be attempted")
}

func TestRetryOnRateLimitThenSuccess(t *testing.T) {
	t.Parallel()
	// 429 on the first two attempts, success on the third.
	tr := &scriptedTranslator{fails: 2, err: rateLimitErr()}
	e, delays := newTestEngine(tr, NewRetryPolicy(3, 100*time.Millisecond, 5*time.Second))

	rec := sampleRecord()
	rec.Description = ""
	out, stats := e.Enrich(context.Background(), rec, "bn")

	require.Equal(t, 3, tr.calls, "exactly 3 translate calls")
	require.Len(t, *delays, 2, "a backoff delay before each retry")
	for i, d := range *delays {
		require.Positive(t, d)
		require.LessOrEqual(t, d, 5*time.Second, "delay %d exceeds ceiling", i)
	}

	title, ok := out.Translation("title", "bn")
	require.True(t, ok)
	require.Equal(t, "bn:Flood Update", title)
	require.Equal(t, 1, stats.Succeeded)
}

func TestRetriesExhaustedYieldsRateLimitSentinel(t *testing.T) {
	t.Parallel()
	tr := &scriptedTranslator{fails: 99, err: rateLimitErr()}
	e, delays := newTestEngine(tr, NewRetryPolicy(3, time.Millisecond, time.Second))

	rec := sampleRecord()
	rec.Description = ""
	out, stats := e.Enrich(context.Background(), rec, "bn")

	require.Equal(t, 3, tr.calls, "no more than MaxAttempts calls")
	require.Len(t, *delays, 2)
	title, ok := out.Translation("title", "bn")
	require.True(t, ok, "failed field must still be present")
	require.Equal(t, SentinelRateLimited, title)
	require.Equal(t, 1, stats.Failed)
}

func TestPermanentErrorIsNotRetried(t *testing.T) {
	t.Parallel()
	tr := &scriptedTranslator{fails: 99, err: authErr()}
	e, delays := newTestEngine(tr, NewRetryPolicy(3, time.Millisecond, time.Second))

	rec := sampleRecord()
	rec.Description = ""
	out, _ := e.Enrich(context.Background(), rec, "bn")

	require.Equal(t, 1, tr.calls, "permanent errors must not be retried")
	require.Empty(t, *delays)
	title, ok := out.Translation("title", "bn")
	require.True(t, ok)
	require.Equal(t, SentinelTranslationError, title)
}

func TestServerFaultExhaustedYieldsGenericSentinel(t *testing.T) {
	t.Parallel()
	tr := &scriptedTranslator{fails: 99, err: &googleapi.Error{Code: 503}}
	e, _ := newTestEngine(tr, NewRetryPolicy(3, time.Millisecond, time.Second))

	rec := sampleRecord()
	rec.Description = ""
	out, _ := e.Enrich(context.Background(), rec, "bn")

	title, ok := out.Translation("title", "bn")
	require.True(t, ok)
	require.Equal(t, SentinelFailed, title)
}

func TestRunAggregatesStats(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(&scriptedTranslator{}, NewRetryPolicy(3, time.Millisecond, time.Second))

	records := []record.Record{sampleRecord(), sampleRecord()}
	out, stats := e.Run(context.Background(), records, "es")

	require.Len(t, out, 2)
	require.Equal(t, 4, stats.Attempted)
	require.Equal(t, 4, stats.Succeeded)
	require.Zero(t, stats.Failed)
	require.GreaterOrEqual(t, stats.Elapsed, time.Duration(0))
}

func TestIsTransientClassification(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", rateLimitErr(), true},
		{"server fault", &googleapi.Error{Code: 500}, true},
		{"bad gateway", &googleapi.Error{Code: 502}, true},
		{"auth", authErr(), false},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"canceled", context.Canceled, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
