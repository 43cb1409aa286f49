package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORS_SetsHeaders(t *testing.T) {
	h := New(&mockDB{}, "http://localhost:5173")

	rec := httptest.NewRecorder()
	h.CORS(okHandler()).ServeHTTP(rec, httptest.NewRequest("POST", "/api/pricing/shopee", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	want := map[string]string{
		"Access-Control-Allow-Origin":      "http://localhost:5173",
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Allow-Methods":     "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers":     "Content-Type, Authorization, X-Request-ID",
		"Access-Control-Expose-Headers":    "X-Request-ID, Retry-After",
		"Vary":                             "Origin",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s: expected %q, got %q", k, v, got)
		}
	}
}

func TestCORS_PreflightSkipsHandler(t *testing.T) {
	h := New(&mockDB{}, "http://localhost:5173")

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h.CORS(inner).ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/dre", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for OPTIONS, got %d", rec.Code)
	}
	if called {
		t.Error("preflight reached the wrapped handler")
	}
}

func TestDecodeJSON_RejectsOversizedBody(t *testing.T) {
	body := strings.NewReader(`{"product_cost":"` + strings.Repeat("9", maxBodyBytes) + `"}`)
	req := httptest.NewRequest("POST", "/api/pricing/shopee", body)
	rec := httptest.NewRecorder()

	var v map[string]string
	if err := decodeJSON(rec, req, &v); err == nil {
		t.Error("expected an error for a body over the limit")
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusTeapot, "short_and_stout")

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}
	if body := rec.Body.String(); body != "{\"error\":\"short_and_stout\"}\n" {
		t.Errorf("unexpected body %q", body)
	}
}
