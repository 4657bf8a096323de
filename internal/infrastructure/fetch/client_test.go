package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetParsesDocument(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("unexpected user agent %q", ua)
		}
		_, _ = w.Write([]byte(`<html><body><h1>Housing Office</h1></body></html>`))
	}))
	defer server.Close()

	c := NewClient("test-agent", 5*time.Second, 3)
	doc, err := c.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Housing Office" {
		t.Fatalf("unexpected document content: %q", got)
	}
}

func TestGetRejectsNon200(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := NewClient("test-agent", 5*time.Second, 3)
	if _, err := c.Get(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestHeadReturnsStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient("test-agent", 5*time.Second, 3)
	status, err := c.Head(context.Background(), server.URL+"/housing/staff")
	if err != nil {
		t.Fatalf("Head error: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestRedirectLimit(t *testing.T) {
	t.Parallel()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	c := NewClient("test-agent", 5*time.Second, 2)
	if _, err := c.Get(context.Background(), server.URL); err == nil {
		t.Fatal("expected redirect loop to fail")
	}
}
