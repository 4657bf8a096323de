package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housingscout/internal/ports"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 3
	maxResponseBytes    = 5 * 1024 * 1024
	acceptHeader        = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Client fetches target-site pages with a realistic browser user agent,
// bounded redirects, and a per-call timeout.
type Client struct {
	userAgent string
	http      *http.Client
}

var _ ports.Fetcher = (*Client)(nil)

// NewClient builds the fetcher. Zero timeout and redirect values fall back
// to the defaults.
func NewClient(userAgent string, timeout time.Duration, maxRedirects int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	return &Client{
		userAgent: userAgent,
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Get fetches and parses an HTML page. Non-200 responses are errors.
func (c *Client) Get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.do(ctx, http.MethodGet, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// Head issues an existence probe and returns the status code.
func (c *Client) Head(ctx context.Context, pageURL string) (int, error) {
	resp, err := c.do(ctx, http.MethodHead, pageURL)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, pageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, pageURL, err)
	}
	return resp, nil
}
