package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/ports"
)

type stubSearch struct {
	results []ports.SearchResult
	err     error
	calls   int
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]ports.SearchResult, error) {
	s.calls++
	return s.results, s.err
}

type stubFetcher struct {
	getErr   error
	getCalls []string
	headCode int
}

func (f *stubFetcher) Get(ctx context.Context, url string) (*goquery.Document, error) {
	f.getCalls = append(f.getCalls, url)
	return nil, f.getErr
}

func (f *stubFetcher) Head(ctx context.Context, url string) (int, error) {
	return f.headCode, nil
}

func newTestResolver(search *stubSearch, fetcher *stubFetcher, check HostChecker) *Resolver {
	return NewResolver(search, fetcher, NewNormalizer(nil), nil, check, "", nil)
}

func TestResolvePicksShortestSearchHostname(t *testing.T) {
	t.Parallel()

	search := &stubSearch{results: []ports.SearchResult{
		{URL: "https://housing.berkeley.edu/staff"},
		{URL: "https://berkeley.edu"},
		{URL: "https://www.example.com/berkeley"},
	}}
	fetcher := &stubFetcher{}

	r := newTestResolver(search, fetcher, func(string) bool { return false })
	got := r.Resolve(context.Background(), "University of California Berkeley")
	if got != "berkeley.edu" {
		t.Fatalf("expected shortest .edu hostname, got %q", got)
	}
	if len(fetcher.getCalls) != 0 {
		t.Fatalf("search hit must not trigger probes, got %v", fetcher.getCalls)
	}
}

func TestResolveRegistryHitSkipsProbe(t *testing.T) {
	t.Parallel()

	search := &stubSearch{err: errors.New("network down")}
	fetcher := &stubFetcher{}
	checked := false

	r := newTestResolver(search, fetcher, func(string) bool { checked = true; return true })
	got := r.Resolve(context.Background(), "Stanford University")
	if got != "stanford.edu" {
		t.Fatalf("expected registry fallback to stanford.edu, got %q", got)
	}
	if len(fetcher.getCalls) != 0 || checked {
		t.Fatal("direct registry hit must not attempt a live probe")
	}
}

func TestResolveSynthesizedCandidateRequiresProbeSuccess(t *testing.T) {
	t.Parallel()

	search := &stubSearch{}
	fetcher := &stubFetcher{getErr: errors.New("unreachable")}

	r := newTestResolver(search, fetcher, func(string) bool { return true })
	got := r.Resolve(context.Background(), "Example Research Academy")
	if got != "" {
		t.Fatalf("unreachable candidates must resolve to empty, got %q", got)
	}
	if len(fetcher.getCalls) == 0 {
		t.Fatal("synthesized candidates should have been probed")
	}
}

func TestResolveSkipsCandidatesFailingDNS(t *testing.T) {
	t.Parallel()

	search := &stubSearch{}
	fetcher := &stubFetcher{}

	r := newTestResolver(search, fetcher, func(string) bool { return false })
	got := r.Resolve(context.Background(), "Example Research Academy")
	if got != "" {
		t.Fatalf("expected empty resolution, got %q", got)
	}
	if len(fetcher.getCalls) != 0 {
		t.Fatalf("candidates failing DNS must not be probed, got %v", fetcher.getCalls)
	}
}

func TestSynthesizeCandidatesForCampusSystems(t *testing.T) {
	t.Parallel()

	r := newTestResolver(&stubSearch{}, &stubFetcher{}, func(string) bool { return false })

	uc := r.synthesizeCandidates("university of california davis")
	if len(uc) == 0 || uc[0] != "ucdavis.edu" {
		t.Fatalf("expected ucdavis.edu first, got %v", uc)
	}

	csu := r.synthesizeCandidates("california state university bakersfield")
	if len(csu) < 2 || csu[0] != "csubakersfield.edu" || csu[1] != "bakersfield.edu" {
		t.Fatalf("unexpected cal state candidates: %v", csu)
	}
}
