package enrich

import (
	"testing"
	"time"
)

func TestBackoffNeverExceedsCeiling(t *testing.T) {
	t.Parallel()
	p := NewRetryPolicy(10, 100*time.Millisecond, 2*time.Second)
	for attempt := 0; attempt < 10; attempt++ {
		for i := 0; i < 20; i++ {
			if d := p.Backoff(attempt); d > 2*time.Second {
				t.Fatalf("attempt %d: backoff %v exceeds ceiling", attempt, d)
			}
		}
	}
}

func TestBackoffGrowsWithAttempts(t *testing.T) {
	t.Parallel()
	p := NewRetryPolicy(5, 100*time.Millisecond, time.Minute)
	// The minimum possible delay (zero jitter) is half the raw delay, which
	// doubles per attempt.
	for attempt := 0; attempt < 4; attempt++ {
		floor := 50 * time.Millisecond << attempt
		for i := 0; i < 20; i++ {
			if d := p.Backoff(attempt); d < floor {
				t.Fatalf("attempt %d: backoff %v below floor %v", attempt, d, floor)
			}
		}
	}
}

func TestPolicyDefaults(t *testing.T) {
	t.Parallel()
	p := NewRetryPolicy(0, 0, 0)
	if p.MaxAttempts() != 3 {
		t.Fatalf("default max attempts = %d, want 3", p.MaxAttempts())
	}
	if d := p.Backoff(0); d <= 0 {
		t.Fatalf("default backoff must be positive, got %v", d)
	}
}
