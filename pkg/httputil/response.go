// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ContentTypeProblem is the RFC 7807 problem details media type.
const ContentTypeProblem = "application/problem+json"

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	write(w, "application/json", status, data)
}

// WriteProblem writes an RFC 7807 problem details response.
func WriteProblem(w http.ResponseWriter, status int, problem any) {
	write(w, ContentTypeProblem, status, problem)
}

// WriteText writes a plain text response.
func WriteText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func write(w http.ResponseWriter, contentType string, status int, data any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
