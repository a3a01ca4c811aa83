package xe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKESRate_ParsesDailyAverage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"last1Days": {"average": 131.42, "high": 132.0, "low": 130.8}}`))
	}))
	defer srv.Close()

	rate := NewClient(WithBaseURL(srv.URL)).KESRate(context.Background())
	if rate.StringFixed(2) != "131.42" {
		t.Errorf("rate = %s, want 131.42", rate.String())
	}
}

func TestKESRate_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	rate := NewClient(WithBaseURL(srv.URL)).KESRate(context.Background())
	if rate.StringFixed(2) != "129.65" {
		t.Errorf("rate = %s, want the 129.65 fallback", rate.String())
	}
}

func TestKESRate_FallsBackOnBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	rate := NewClient(WithBaseURL(srv.URL)).KESRate(context.Background())
	if rate.StringFixed(2) != "129.65" {
		t.Errorf("rate = %s, want the 129.65 fallback", rate.String())
	}
}

func TestKESRate_FallsBackOnZeroAverage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"last1Days": {"average": 0}}`))
	}))
	defer srv.Close()

	rate := NewClient(WithBaseURL(srv.URL)).KESRate(context.Background())
	if rate.StringFixed(2) != "129.65" {
		t.Errorf("rate = %s, want the 129.65 fallback", rate.String())
	}
}

func TestKESRate_FallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	rate := NewClient(WithBaseURL(srv.URL), WithFallbackRate(140.00)).KESRate(context.Background())
	if rate.StringFixed(2) != "140.00" {
		t.Errorf("rate = %s, want the configured fallback", rate.String())
	}
}
