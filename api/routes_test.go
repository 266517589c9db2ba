package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDMiddlewareAcceptsShortHeader(t *testing.T) {
	h := requestIDMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("expected client request ID echoed, got %q", got)
	}
}

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	h := requestIDMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Fatal("expected a generated request ID header")
	}
}
