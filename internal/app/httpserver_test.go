package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	ok := OpsMux(pingFunc(func(context.Context) error { return nil }))
	w := httptest.NewRecorder()
	ok.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthy: %d %q", w.Code, w.Body.String())
	}

	down := OpsMux(pingFunc(func(context.Context) error { return errors.New("conn refused") }))
	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "conn refused") {
		t.Fatalf("down: %d %q", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := OpsMux(pingFunc(func(context.Context) error { return nil }))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "showcase_") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
