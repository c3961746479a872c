package validation

import (
	"net/http"
	"strings"
	"testing"
)

func BenchmarkEngine_Check(b *testing.B) {
	e := newEngine(b, engineSchema)
	input := Input{"id": "42", "age": 30.0}

	b.ReportAllocs()
	for b.Loop() {
		if f, err := e.Check("/api/users/42", input); err != nil || f != nil {
			b.Fatalf("unexpected result: %v %v", f, err)
		}
	}
}

func BenchmarkMiddleware(b *testing.B) {
	e := newEngine(b, middlewareSchema)
	h := NewMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), e, MiddlewareConfig{})
	body := `{"username":"bob","password":"12345678"}`

	b.ReportAllocs()
	for b.Loop() {
		rec := serve(h, http.MethodPost, "/api/login", "application/json", body)
		if rec.Code != http.StatusNoContent {
			b.Fatalf("status %d: %s", rec.Code, strings.TrimSpace(rec.Body.String()))
		}
	}
}
