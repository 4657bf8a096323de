package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/ports"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo queries the HTML (non-JS) DuckDuckGo endpoint and decodes its
// redirect-wrapped result links.
type DuckDuckGo struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

var _ ports.SearchProvider = (*DuckDuckGo)(nil)

// NewDuckDuckGo wires the provider; a nil client gets a 10s-timeout default.
func NewDuckDuckGo(baseURL, userAgent string, client *http.Client, logger *slog.Logger) *DuckDuckGo {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DuckDuckGo{baseURL: baseURL, userAgent: userAgent, client: client, logger: logger}
}

// Search fetches one results page and returns its decoded anchors. Callers
// are responsible for pacing consecutive queries.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]ports.SearchResult, error) {
	endpoint := d.baseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var results []ports.SearchResult
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		target := DecodeResultURL(href)
		if target == "" {
			return
		}
		title, _ := sel.Attr("title")
		results = append(results, ports.SearchResult{
			URL:   target,
			Title: title,
			Text:  strings.TrimSpace(sel.Text()),
		})
	})

	if d.logger != nil {
		d.logger.Debug("search completed", "query", query, "results", len(results))
	}
	return results, nil
}

// DecodeResultURL unwraps DuckDuckGo's redirect links, which embed the real
// destination in the uddg query parameter. Plain links pass through; anchors
// without a usable destination return "".
func DecodeResultURL(href string) string {
	if href == "" {
		return ""
	}

	if strings.Contains(href, "duckduckgo.com/l/") || strings.Contains(href, "uddg=") {
		parsed, err := url.Parse(href)
		if err != nil {
			return ""
		}
		real := parsed.Query().Get("uddg")
		if real == "" {
			return ""
		}
		decoded, err := url.QueryUnescape(real)
		if err != nil {
			return ""
		}
		return decoded
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return ""
}
