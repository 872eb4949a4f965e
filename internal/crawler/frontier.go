package crawler

import (
	"net/url"
	"strings"
	"sync"
)

// Frontier decides which URLs are eligible to crawl and owns the visited
// set. The visited set is the single source of truth for "already seen";
// it grows monotonically and is bounded by the capacity ceiling.
type Frontier struct {
	allowedDomains  []string
	excludeKeywords []string
	maxURLLength    int
	capacity        int

	mu      sync.Mutex
	visited map[string]struct{}
}

// NewFrontier builds a Frontier from admission policy knobs.
func NewFrontier(allowedDomains, excludeKeywords []string, maxURLLength, capacity int) *Frontier {
	return &Frontier{
		allowedDomains:  lowerTrimmed(allowedDomains),
		excludeKeywords: lowerTrimmed(excludeKeywords),
		maxURLLength:    maxURLLength,
		capacity:        capacity,
		visited:         make(map[string]struct{}),
	}
}

func lowerTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ShouldVisit reports whether rawURL passes every admission rule: http(s)
// scheme, allowlisted host, length bound, no exclusion keyword, not yet
// visited, and capacity not reached.
func (f *Frontier) ShouldVisit(rawURL string) bool {
	if !f.passesPolicy(rawURL) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.visited) >= f.capacity {
		return false
	}
	_, seen := f.visited[rawURL]
	return !seen
}

// Admit atomically checks ShouldVisit and marks the URL visited, so two
// workers can never dispatch the same URL. It returns true when the caller
// owns the URL.
func (f *Frontier) Admit(rawURL string) bool {
	if !f.passesPolicy(rawURL) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.visited) >= f.capacity {
		return false
	}
	if _, seen := f.visited[rawURL]; seen {
		return false
	}
	f.visited[rawURL] = struct{}{}
	return true
}

// MarkVisited records rawURL without policy checks. Idempotent.
func (f *Frontier) MarkVisited(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[rawURL] = struct{}{}
}

// AtCapacity reports whether the visited set has reached the crawl ceiling.
// Once true, no new URLs are admitted; in-flight work completes normally.
func (f *Frontier) AtCapacity() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited) >= f.capacity
}

// VisitedCount returns the current visited set size.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

func (f *Frontier) passesPolicy(rawURL string) bool {
	if rawURL == "" || (f.maxURLLength > 0 && len(rawURL) > f.maxURLLength) {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, kw := range f.excludeKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return f.hostAllowed(u.Hostname())
}

func (f *Frontier) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	if host == "" {
		return false
	}
	for _, domain := range f.allowedDomains {
		if strings.Contains(host, domain) || strings.HasSuffix(host, domain) {
			return true
		}
	}
	return false
}
