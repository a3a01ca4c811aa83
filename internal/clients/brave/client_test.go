package brave

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nsebridge/neo/internal/common"
)

func TestSearchNews_DecodesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "test-key" {
			t.Errorf("subscription token = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "NSE:KCB stock news" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "5" {
			t.Errorf("count = %q", got)
		}

		w.Write([]byte(`{"results": [
			{"title": "KCB posts record profit", "description": "Strong growth in the half year", "url": "https://example.com/1", "age": "2 days ago", "source": "Business Daily"},
			{"title": "Banking sector outlook", "description": "Mixed signals", "url": "https://example.com/2", "age": "1 week ago", "source": "Reuters"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithLogger(common.NewSilentLogger()))

	articles, err := client.SearchNews(context.Background(), "NSE:KCB stock news", 5)
	if err != nil {
		t.Fatalf("SearchNews failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(articles))
	}
	if articles[0].Title != "KCB posts record profit" || articles[0].Source != "Business Daily" {
		t.Errorf("first article = %+v", articles[0])
	}
}

func TestSearchNews_OmitsCountWhenZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("count") {
			t.Error("count param sent for zero count")
		}
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	articles, err := client.SearchNews(context.Background(), "query", 0)
	if err != nil {
		t.Fatalf("SearchNews failed: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("articles = %d, want 0", len(articles))
	}
}

func TestSearchNews_DecodesGzipResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			t.Error("request does not advertise gzip")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(`{"results": [{"title": "KCB posts record profit", "url": "https://example.com/1"}]}`))
		gz.Close()
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	articles, err := client.SearchNews(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("SearchNews failed on a gzip response: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "KCB posts record profit" {
		t.Errorf("articles = %+v", articles)
	}
}

func TestSearchNews_RateLimitedIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.SearchNews(context.Background(), "query", 5)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", apiErr.StatusCode)
	}
}
