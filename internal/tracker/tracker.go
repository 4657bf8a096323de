package tracker

import (
	"net/url"
	"strings"
	"sync"
)

// Tracker is the run-scoped dedup ledger: which normalized URLs have been
// scraped and which emails have already been emitted. One run owns exactly
// one Tracker; it is discarded at run end. The mutex exists because a page
// abandoned at its timeout may still be settling while the next one starts.
type Tracker struct {
	mu      sync.Mutex
	visited map[string]struct{}
	emails  map[string]struct{}
}

// New builds an empty ledger.
func New() *Tracker {
	return &Tracker{
		visited: make(map[string]struct{}),
		emails:  make(map[string]struct{}),
	}
}

// NormalizeURL reduces a URL to scheme://host/path, lowercased, with any
// trailing slashes stripped, so that /housing and /housing/ compare equal.
// Unparseable input falls back to plain lowercasing.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return strings.ToLower(raw)
	}
	path := strings.TrimRight(parsed.Path, "/")
	return strings.ToLower(parsed.Scheme + "://" + parsed.Host + path)
}

// Visited reports whether the URL has already been scraped this run.
func (t *Tracker) Visited(rawURL string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.visited[NormalizeURL(rawURL)]
	return ok
}

// MarkVisited records the URL as scraped.
func (t *Tracker) MarkVisited(rawURL string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visited[NormalizeURL(rawURL)] = struct{}{}
}

// HasEmail reports whether the email was already emitted this run.
func (t *Tracker) HasEmail(email string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.emails[strings.ToLower(email)]
	return ok
}

// AddEmail records an emitted email.
func (t *Tracker) AddEmail(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emails[strings.ToLower(email)] = struct{}{}
}
