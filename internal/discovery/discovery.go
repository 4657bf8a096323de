package discovery

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/domain"
	"housingscout/internal/ports"
	"housingscout/internal/tracker"
)

const (
	maxContactLinks   = 8
	maxCommunityPages = 10
)

var (
	directionExpr     = regexp.MustCompile(`(?i)\b(north|south|east|west|upper|lower|new|old)\s+(campus|village|complex|area)\b`)
	buildingTypeExpr  = regexp.MustCompile(`(?i)\b(tower|hall|court|house|plaza|village|commons|square|center)\b`)
	namedBuildingExpr = regexp.MustCompile(`\b[A-Z][a-z]+\s+(Hall|House|Court|Tower|Apartments?|Complex|Village)\b`)
	cohortExpr        = regexp.MustCompile(`(?i)\b(freshman|sophomore|junior|senior|graduate|family)\s+(housing|apartments?|residence)\b`)
	locationURLExpr   = regexp.MustCompile(`(?i)/(communit|location|building|hall|residence|apartment)`)
	directionURLExpr  = regexp.MustCompile(`(?i)/(north|south|east|west)-`)
)

// Options tunes probe batching and query pacing.
type Options struct {
	BatchSize  int
	BatchDelay time.Duration
	QueryDelay time.Duration
}

// Discoverer produces the set of candidate pages for one institution by
// unioning search results, subdomain/path probes, and link following.
type Discoverer struct {
	search  ports.SearchProvider
	fetcher ports.Fetcher
	tables  Tables
	gate    *Gate

	batchSize  int
	batchDelay time.Duration
	logger     *slog.Logger
}

// New builds a discoverer. Zero options fall back to production defaults.
func New(search ports.SearchProvider, fetcher ports.Fetcher, tables Tables, opts Options, logger *slog.Logger) *Discoverer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}
	return &Discoverer{
		search:     search,
		fetcher:    fetcher,
		tables:     tables,
		gate:       NewGate(opts.QueryDelay),
		batchSize:  opts.BatchSize,
		batchDelay: opts.BatchDelay,
		logger:     logger,
	}
}

// Discover runs the search and probe strategies and unions their candidates.
// Individual query and probe failures are logged and skipped; Discover
// itself only fails when the context is cancelled.
func (d *Discoverer) Discover(ctx context.Context, name, host string) []domain.CandidatePage {
	set := newPageSet()

	d.fromSearch(ctx, name, host, set)
	if host != "" {
		d.fromProbes(ctx, host, set)
	}

	pages := set.pages()
	d.debug("discovery complete", "name", name, "candidates", len(pages))
	return pages
}

// fromSearch issues the query battery sequentially, paced by the gate.
func (d *Discoverer) fromSearch(ctx context.Context, name, host string, set *pageSet) {
	for _, query := range searchQueries(name, host) {
		if err := d.gate.Wait(ctx); err != nil {
			return
		}

		results, err := d.search.Search(ctx, query)
		if err != nil {
			d.debug("search query failed", "query", query, "error", err)
			continue
		}

		for _, res := range results {
			if !d.matchesHousingOrContact(res.Text, res.Title, res.URL) {
				continue
			}
			if !strings.HasSuffix(hostnameOf(res.URL), ".edu") {
				continue
			}
			set.add(res.URL, domain.SourceSearch)
		}
	}
}

// fromProbes enumerates housing subdomains and staff paths with batched HEAD
// probes. Probes inside a batch run concurrently and independently.
func (d *Discoverer) fromProbes(ctx context.Context, host string, set *pageSet) {
	for _, prefix := range d.tables.SubdomainPrefixes {
		base := "https://" + prefix + "." + host
		status, err := d.fetcher.Head(ctx, base)
		if err != nil || status != 200 {
			continue
		}
		set.add(base, domain.SourceSubdomain)
		d.probePaths(ctx, base, set)
	}

	d.probePaths(ctx, "https://"+host, set)
}

func (d *Discoverer) probePaths(ctx context.Context, base string, set *pageSet) {
	var paths []string
	for _, section := range d.tables.SectionPrefixes {
		for _, p := range d.tables.StaffPaths {
			paths = append(paths, section+p)
		}
		for _, p := range d.tables.LocationPaths {
			paths = append(paths, section+p)
		}
	}
	paths = append(paths, d.tables.StaffPaths...)
	paths = append(paths, d.tables.LocationPaths...)

	for start := 0; start < len(paths); start += d.batchSize {
		if ctx.Err() != nil {
			return
		}

		end := start + d.batchSize
		if end > len(paths) {
			end = len(paths)
		}

		var wg sync.WaitGroup
		hits := make([]string, end-start)
		for i, path := range paths[start:end] {
			wg.Add(1)
			go func(i int, probeURL string) {
				defer wg.Done()
				status, err := d.fetcher.Head(ctx, probeURL)
				if err == nil && status == 200 {
					hits[i] = probeURL
				}
			}(i, base+path)
		}
		wg.Wait()

		for i, hit := range hits {
			if hit == "" {
				continue
			}
			set.add(hit, domain.SourcePath)
			if d.isLocationPath(paths[start+i]) {
				d.expandLocationPage(ctx, hit, set)
			}
		}

		if d.batchDelay > 0 && start+d.batchSize < len(paths) {
			select {
			case <-time.After(d.batchDelay):
			case <-ctx.Done():
				return
			}
		}
	}
}

// expandLocationPage fetches a confirmed location/community index and pulls
// links to individual buildings and halls. Bounded to one hop.
func (d *Discoverer) expandLocationPage(ctx context.Context, pageURL string, set *pageSet) {
	doc, err := d.fetcher.Get(ctx, pageURL)
	if err != nil {
		d.debug("location page fetch failed", "url", pageURL, "error", err)
		return
	}

	baseHost := hostnameOf(pageURL)
	count := 0
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if count >= maxCommunityPages {
			return false
		}
		href, _ := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())
		title, _ := sel.Attr("title")

		if !d.looksLikeLocation(text, title, href) {
			return true
		}
		full := absoluteURL(href, pageURL)
		if full == "" || hostnameOf(full) != baseHost {
			return true
		}
		if set.add(full, domain.SourceLink) {
			count++
		}
		return true
	})
}

// FollowLinks scans an already-fetched housing hub page for same-host
// contact, staff, and community links that have not been visited yet. The
// engine uses it for the secondary discovery pass.
func (d *Discoverer) FollowLinks(doc *goquery.Document, baseURL string, tr *tracker.Tracker) []domain.CandidatePage {
	baseHost := hostnameOf(baseURL)
	set := newPageSet()

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if set.len() >= maxContactLinks {
			return false
		}
		href, _ := sel.Attr("href")
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		title, _ := sel.Attr("title")

		contact := containsAny(text, d.tables.ContactKeywords) ||
			containsAny(strings.ToLower(title), d.tables.ContactKeywords) ||
			containsAny(strings.ToLower(href), d.tables.ContactKeywords)
		if !contact && !d.looksLikeLocation(sel.Text(), title, href) {
			return true
		}

		full := absoluteURL(href, baseURL)
		if full == "" || hostnameOf(full) != baseHost {
			return true
		}
		if tr.Visited(full) {
			return true
		}
		set.add(full, domain.SourceLink)
		return true
	})

	return set.pages()
}

func (d *Discoverer) matchesHousingOrContact(text, title, href string) bool {
	text = strings.ToLower(text)
	title = strings.ToLower(title)
	href = strings.ToLower(href)
	return containsAny(text, d.tables.HousingKeywords) ||
		containsAny(text, d.tables.ContactKeywords) ||
		containsAny(title, d.tables.ContactKeywords) ||
		containsAny(href, d.tables.HousingKeywords)
}

func (d *Discoverer) looksLikeLocation(text, title, href string) bool {
	lowText := strings.ToLower(text)
	lowTitle := strings.ToLower(title)
	lowHref := strings.ToLower(href)

	return containsAny(lowText, d.tables.LocationKeywords) ||
		containsAny(lowTitle, d.tables.LocationKeywords) ||
		containsAny(lowHref, d.tables.LocationKeywords) ||
		directionExpr.MatchString(text) ||
		buildingTypeExpr.MatchString(text) ||
		namedBuildingExpr.MatchString(text) ||
		cohortExpr.MatchString(text) ||
		locationURLExpr.MatchString(href) ||
		directionURLExpr.MatchString(href)
}

func (d *Discoverer) isLocationPath(path string) bool {
	for _, p := range d.tables.LocationPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

func (d *Discoverer) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

// pageSet unions candidates keyed by their normalized URL, preserving the
// provenance of the first strategy that found each page.
type pageSet struct {
	order []domain.CandidatePage
	seen  map[string]struct{}
}

func newPageSet() *pageSet {
	return &pageSet{seen: make(map[string]struct{})}
}

func (s *pageSet) add(rawURL string, source domain.PageSource) bool {
	normalized := tracker.NormalizeURL(rawURL)
	if _, ok := s.seen[normalized]; ok {
		return false
	}
	s.seen[normalized] = struct{}{}
	s.order = append(s.order, domain.CandidatePage{
		URL:        rawURL,
		Normalized: normalized,
		Source:     source,
	})
	return true
}

func (s *pageSet) len() int { return len(s.order) }

func (s *pageSet) pages() []domain.CandidatePage { return s.order }

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func hostnameOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func absoluteURL(href, base string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
