package domain

import (
	"fmt"
	"time"
)

// ContactFormEmail is the sentinel stored instead of an address when a page
// only offers a contact form.
const ContactFormEmail = "contact-form"

// InstitutionQuery is the normalized view of a free-text institution name.
// Variants may contain duplicates; consumers deduplicate before use.
type InstitutionQuery struct {
	RawName  string
	Variants []string
}

// PageSource records which discovery strategy produced a candidate page.
type PageSource string

const (
	SourceSearch    PageSource = "search"
	SourceSubdomain PageSource = "subdomain"
	SourcePath      PageSource = "path"
	SourceLink      PageSource = "link"
)

// CandidatePage is a URL hypothesized to contain housing-staff information.
// It is consumed at most once per run; the tracker enforces that.
type CandidatePage struct {
	URL        string
	Normalized string
	Source     PageSource
}

// RawContact is a record extracted from a scraped page. Name may be empty for
// a contact-form placeholder. Nothing else in the system creates these.
type RawContact struct {
	Name        string
	Title       string
	Email       string
	Phone       string
	Department  string
	SourceURL   string
	ExtractedAt time.Time
}

// IsContactForm reports whether this record is a contact-form placeholder.
func (c RawContact) IsContactForm() bool {
	return c.Email == ContactFormEmail
}

// ScoredContact is a RawContact with its relevance score attached.
type ScoredContact struct {
	RawContact
	Score int
}

// PageOutcome is one entry of the per-page ledger handed back to the caller.
type PageOutcome struct {
	URL     string
	Success bool
	Count   int
	Error   string
}

// RunResult is the terminal contract of one discovery run.
type RunResult struct {
	ResolvedDomain  string
	DiscoveredPages []string
	PageOutcomes    []PageOutcome
	Contacts        []ScoredContact
	TimedOut        bool
	Elapsed         time.Duration
}

// Advice translates the terminal state into an actionable hint for the user.
// The three empty-handed cases are distinct on purpose: a missing domain, an
// unextractable site, and an exhausted budget each call for different action.
func (r RunResult) Advice() string {
	switch {
	case r.TimedOut:
		return fmt.Sprintf("run stopped at the time budget after %s; partial results are available", r.Elapsed.Round(time.Second))
	case len(r.Contacts) > 0:
		return ""
	case r.ResolvedDomain == "" && len(r.DiscoveredPages) == 0:
		return "no web domain could be determined; check the spelling of the institution name"
	case len(r.DiscoveredPages) == 0:
		return "no housing pages were found; the site may use an unusual naming convention"
	default:
		return "housing pages were found but nothing was extractable; the site may require JavaScript rendering"
	}
}

// Institution is a persisted university identity.
type Institution struct {
	ID      string
	Name    string
	Website string
}
