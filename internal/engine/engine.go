package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/domain"
	"housingscout/internal/ports"
	"housingscout/internal/tracker"
)

const (
	defaultRunBudget  = 10 * time.Minute
	defaultPageBudget = 2 * time.Minute

	// Extra pages a single hub page may contribute through its links.
	maxFollowPages = 3
)

// DomainResolver finds the institution's web host. An empty string
// means no domain could be resolved.
type DomainResolver interface {
	Resolve(ctx context.Context, name string) string
}

// PageDiscoverer produces candidate housing pages and expands hub
// pages into further candidates.
type PageDiscoverer interface {
	Discover(ctx context.Context, name, host string) []domain.CandidatePage
	FollowLinks(doc *goquery.Document, baseURL string, tr *tracker.Tracker) []domain.CandidatePage
}

// ContactExtractor pulls raw contacts out of a fetched page.
type ContactExtractor interface {
	Extract(doc *goquery.Document, pageURL string) []domain.RawContact
}

// ContactRanker scores, filters, and deduplicates extracted contacts.
type ContactRanker interface {
	Rank(contacts []domain.RawContact) []domain.ScoredContact
	Deduplicate(ranked []domain.ScoredContact, knownEmails, knownNames map[string]struct{}) []domain.ScoredContact
}

// KnownContacts carries the institution's already stored contacts so
// a rerun only reports new people.
type KnownContacts struct {
	Emails map[string]struct{}
	Names  map[string]struct{}
}

type Options struct {
	RunBudget  time.Duration
	PageBudget time.Duration
}

// Engine walks a discovery run end to end: resolve the domain, find
// candidate pages, scrape each under a per-page deadline, then rank
// and deduplicate whatever was found. The whole run is bounded by a
// global deadline and every page gets a ledger entry either way.
type Engine struct {
	resolver   DomainResolver
	discoverer PageDiscoverer
	fetcher    ports.Fetcher
	extractor  ContactExtractor
	ranker     ContactRanker
	opts       Options
	logger     *slog.Logger
}

func New(resolver DomainResolver, discoverer PageDiscoverer, fetcher ports.Fetcher, extractor ContactExtractor, ranker ContactRanker, opts Options, logger *slog.Logger) *Engine {
	if opts.RunBudget <= 0 {
		opts.RunBudget = defaultRunBudget
	}
	if opts.PageBudget <= 0 {
		opts.PageBudget = defaultPageBudget
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		resolver:   resolver,
		discoverer: discoverer,
		fetcher:    fetcher,
		extractor:  extractor,
		ranker:     ranker,
		opts:       opts,
		logger:     logger.With("component", "engine"),
	}
}

// Run executes a full discovery run for one institution name.
func (e *Engine) Run(ctx context.Context, name string, known KnownContacts) (domain.RunResult, error) {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, e.opts.RunBudget)
	defer cancel()

	result := domain.RunResult{}

	host := e.resolver.Resolve(runCtx, name)
	result.ResolvedDomain = host
	e.logger.Info("domain resolved", "institution", name, "host", host)

	candidates := e.discoverer.Discover(runCtx, name, host)
	for _, c := range candidates {
		result.DiscoveredPages = append(result.DiscoveredPages, c.URL)
	}
	if len(candidates) == 0 {
		result.Elapsed = time.Since(start)
		e.logger.Warn("no candidate pages found", "institution", name)
		return result, ctx.Err()
	}

	tr := tracker.New()
	var raw []domain.RawContact

	queue := candidates
	for i := 0; i < len(queue); i++ {
		if runCtx.Err() != nil {
			result.TimedOut = true
			e.logger.Warn("run budget exhausted", "scraped", i, "pending", len(queue)-i)
			break
		}

		page := queue[i]
		if tr.Visited(page.URL) {
			continue
		}
		tr.MarkVisited(page.URL)

		contacts, doc, err := e.scrapePage(ctx, page.URL)
		outcome := domain.PageOutcome{URL: page.URL}
		if err != nil {
			outcome.Error = err.Error()
			result.PageOutcomes = append(result.PageOutcomes, outcome)
			e.logger.Debug("page failed", "url", page.URL, "error", err)
			continue
		}

		fresh := 0
		for _, c := range contacts {
			if !c.IsContactForm() && tr.HasEmail(c.Email) {
				continue
			}
			if !c.IsContactForm() {
				tr.AddEmail(c.Email)
			}
			raw = append(raw, c)
			fresh++
		}
		outcome.Success = true
		outcome.Count = fresh
		result.PageOutcomes = append(result.PageOutcomes, outcome)
		e.logger.Info("page scraped", "url", page.URL, "contacts", fresh)

		if hubPage(page.URL) {
			added := 0
			for _, follow := range e.discoverer.FollowLinks(doc, page.URL, tr) {
				if added >= maxFollowPages {
					break
				}
				queue = append(queue, follow)
				result.DiscoveredPages = append(result.DiscoveredPages, follow.URL)
				added++
			}
			if added > 0 {
				e.logger.Debug("hub page expanded", "url", page.URL, "added", added)
			}
		}
	}

	ranked := e.ranker.Rank(raw)
	result.Contacts = e.ranker.Deduplicate(ranked, known.Emails, known.Names)
	result.Elapsed = time.Since(start)

	e.logger.Info("run finished",
		"institution", name,
		"pages", len(result.PageOutcomes),
		"contacts", len(result.Contacts),
		"timed_out", result.TimedOut,
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, ctx.Err()
}

// scrapePage fetches and extracts one page under its own deadline. The
// fetch runs in a goroutine so a stalled page surrenders at the
// deadline instead of holding the run. The deadline derives from the
// caller's context, not the run budget: an expired run budget stops
// further pages but lets the in-flight one settle.
func (e *Engine) scrapePage(ctx context.Context, url string) ([]domain.RawContact, *goquery.Document, error) {
	pageCtx, cancel := context.WithTimeout(ctx, e.opts.PageBudget)
	defer cancel()

	type pageResult struct {
		contacts []domain.RawContact
		doc      *goquery.Document
		err      error
	}
	ch := make(chan pageResult, 1)
	go func() {
		doc, err := e.fetcher.Get(pageCtx, url)
		if err != nil {
			ch <- pageResult{err: err}
			return
		}
		ch <- pageResult{contacts: e.extractor.Extract(doc, url), doc: doc}
	}()

	select {
	case res := <-ch:
		return res.contacts, res.doc, e.classifyPageErr(pageCtx, res.err)
	case <-pageCtx.Done():
		return nil, nil, e.classifyPageErr(pageCtx, pageCtx.Err())
	}
}

// classifyPageErr turns a page-deadline expiry into an explicit
// timeout message so the ledger distinguishes it from remote failures.
func (e *Engine) classifyPageErr(pageCtx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("page timeout after %s", e.opts.PageBudget)
	}
	return err
}

func hubPage(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "/housing") ||
		strings.Contains(lower, "/residential") ||
		strings.Contains(lower, "/reslife")
}
