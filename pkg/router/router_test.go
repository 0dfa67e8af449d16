package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouter_ExactMatch(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/runs", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_WildcardSegment(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/runs/*/results", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc-123/results", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc-123/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRouter_RegistrationOrderWins(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/runs/*/results", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("results"))
	})
	r.GET("/api/v1/runs/*", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("run"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc/results", nil))
	if got := rec.Body.String(); got != "results" {
		t.Fatalf("body = %q, want results", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc", nil))
	if got := rec.Body.String(); got != "run" {
		t.Fatalf("body = %q, want run", got)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := New(nil)
	r.POST("/api/v1/runs", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
