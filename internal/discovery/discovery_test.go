package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/domain"
	"housingscout/internal/ports"
	"housingscout/internal/tracker"
)

type stubSearch struct {
	results map[string][]ports.SearchResult
	queries []string
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]ports.SearchResult, error) {
	s.queries = append(s.queries, query)
	if res, ok := s.results[query]; ok {
		return res, nil
	}
	return nil, nil
}

type stubFetcher struct {
	okHeads map[string]bool
	docs    map[string]string
}

func (f *stubFetcher) Get(ctx context.Context, url string) (*goquery.Document, error) {
	html, ok := f.docs[url]
	if !ok {
		return nil, errors.New("no such page")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *stubFetcher) Head(ctx context.Context, url string) (int, error) {
	if f.okHeads[url] {
		return 200, nil
	}
	return 404, nil
}

func smallTables() Tables {
	return Tables{
		HousingKeywords:   []string{"housing"},
		ContactKeywords:   []string{"contact", "staff"},
		LocationKeywords:  []string{"communities"},
		SubdomainPrefixes: []string{"housing"},
		StaffPaths:        []string{"/staff/"},
		LocationPaths:     []string{"/communities/"},
		SectionPrefixes:   []string{"/housing"},
	}
}

func TestDiscoverFromSearchFiltersAndRecordsProvenance(t *testing.T) {
	t.Parallel()

	search := &stubSearch{results: map[string][]ports.SearchResult{
		"Example University housing contact": {
			{URL: "https://example.edu/housing/contact", Text: "Housing Contact"},
			{URL: "https://example.com/housing", Text: "Housing"},       // not .edu
			{URL: "https://example.edu/athletics", Text: "Game tickets"}, // no keyword
		},
	}}

	d := New(search, &stubFetcher{}, smallTables(), Options{}, nil)
	pages := d.Discover(context.Background(), "Example University", "")

	if len(pages) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %v", len(pages), pages)
	}
	if pages[0].URL != "https://example.edu/housing/contact" {
		t.Fatalf("unexpected candidate: %q", pages[0].URL)
	}
	if pages[0].Source != domain.SourceSearch {
		t.Fatalf("expected search provenance, got %q", pages[0].Source)
	}
}

func TestDiscoverIncludesSiteQueriesWhenDomainKnown(t *testing.T) {
	t.Parallel()

	search := &stubSearch{}
	d := New(search, &stubFetcher{}, smallTables(), Options{}, nil)
	d.Discover(context.Background(), "Example University", "example.edu")

	var siteQueries int
	for _, q := range search.queries {
		if strings.HasPrefix(q, "site:example.edu") {
			siteQueries++
		}
	}
	if siteQueries != 7 {
		t.Fatalf("expected 7 site-restricted queries, got %d (%v)", siteQueries, search.queries)
	}
}

func TestDiscoverProbesSubdomainsAndPaths(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{okHeads: map[string]bool{
		"https://housing.example.edu":                     true,
		"https://housing.example.edu/housing/staff/":      false,
		"https://housing.example.edu/staff/":              true,
		"https://example.edu/housing/staff/":              true,
	}}

	d := New(&stubSearch{}, fetcher, smallTables(), Options{}, nil)
	pages := d.Discover(context.Background(), "Example University", "example.edu")

	byURL := map[string]domain.PageSource{}
	for _, p := range pages {
		byURL[p.URL] = p.Source
	}

	if byURL["https://housing.example.edu"] != domain.SourceSubdomain {
		t.Fatalf("subdomain hit missing or mislabeled: %v", byURL)
	}
	if byURL["https://housing.example.edu/staff/"] != domain.SourcePath {
		t.Fatalf("subdomain staff path missing: %v", byURL)
	}
	if byURL["https://example.edu/housing/staff/"] != domain.SourcePath {
		t.Fatalf("main-domain staff path missing: %v", byURL)
	}
}

func TestLocationPathExpandsOneHop(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{
		okHeads: map[string]bool{
			"https://example.edu/housing/communities/": true,
		},
		docs: map[string]string{
			"https://example.edu/housing/communities/": `
			<html><body>
			  <a href="/housing/communities/wilson-hall">Wilson Hall</a>
			  <a href="https://other.edu/hall">Offsite Hall</a>
			  <a href="/about">About</a>
			</body></html>`,
		},
	}

	d := New(&stubSearch{}, fetcher, smallTables(), Options{}, nil)
	pages := d.Discover(context.Background(), "Example University", "example.edu")

	var found bool
	for _, p := range pages {
		if p.URL == "https://example.edu/housing/communities/wilson-hall" {
			found = true
			if p.Source != domain.SourceLink {
				t.Fatalf("hop page should carry link provenance, got %q", p.Source)
			}
		}
		if strings.Contains(p.URL, "other.edu") {
			t.Fatalf("off-host link must not be collected: %q", p.URL)
		}
	}
	if !found {
		t.Fatalf("expected Wilson Hall sub-page among %v", pages)
	}
}

func TestFollowLinksSkipsVisitedAndOffHost(t *testing.T) {
	t.Parallel()

	html := `
	<html><body>
	  <a href="/housing/staff">Staff Directory</a>
	  <a href="/housing/contact">Contact Us</a>
	  <a href="https://elsewhere.edu/staff">Other Staff</a>
	  <a href="/calendar">Calendar</a>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	tr := tracker.New()
	tr.MarkVisited("https://example.edu/housing/contact")

	d := New(&stubSearch{}, &stubFetcher{}, smallTables(), Options{}, nil)
	pages := d.FollowLinks(doc, "https://example.edu/housing", tr)

	if len(pages) != 1 {
		t.Fatalf("expected only the staff link, got %v", pages)
	}
	if pages[0].URL != "https://example.edu/housing/staff" {
		t.Fatalf("unexpected link: %q", pages[0].URL)
	}
}

func TestGatePacesAcquisitions(t *testing.T) {
	t.Parallel()

	g := NewGate(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.Wait(context.Background()); err != nil {
			t.Fatalf("Wait error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("three acquisitions finished too fast: %v", elapsed)
	}
}

func TestGateHonorsCancellation(t *testing.T) {
	t.Parallel()

	g := NewGate(time.Hour)
	_ = g.Wait(context.Background()) // take the first slot

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Wait(ctx); err == nil {
		t.Fatal("expected context error from cancelled Wait")
	}
}
