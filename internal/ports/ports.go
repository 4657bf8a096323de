package ports

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/domain"
)

// SearchResult is one decoded anchor from a search-engine results page.
type SearchResult struct {
	URL   string
	Title string
	Text  string
}

// SearchProvider issues a free-text query against a search engine and returns
// decoded result links. Redirect-wrapped URLs are resolved before return.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Fetcher issues requests against target sites with a browser user agent,
// bounded redirects, and per-call timeouts.
type Fetcher interface {
	Get(ctx context.Context, url string) (*goquery.Document, error)
	Head(ctx context.Context, url string) (int, error)
}

// InstitutionRepository is the persistence collaborator. All methods are
// fallible remote calls; their errors never corrupt in-memory run state.
type InstitutionRepository interface {
	FindInstitution(ctx context.Context, variants []string) (*domain.Institution, error)
	CreateInstitution(ctx context.Context, name, website string, pages []string) (domain.Institution, error)
	ListExistingContacts(ctx context.Context, institutionID string) ([]domain.ScoredContact, error)
	InsertContacts(ctx context.Context, institutionID string, contacts []domain.ScoredContact) error
}
