// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Every non-record response in this API is a message envelope:
//
//	{ "message": "Student deleted successfully" }
//
// Internal failures additionally carry the underlying cause:
//
//	{ "message": "Error reading students data", "error": "open data/students.json: permission denied" }
//
// Centralising the envelope keeps handlers to one line per outcome and
// keeps the shapes identical across endpoints.
package response

import (
	"encoding/json"
	"net/http"
)

// Body is the standard response envelope.
type Body struct {
	Message string `json:"message"`
	// Error carries the underlying cause for 500s; omitted otherwise.
	Error string `json:"error,omitempty"`
}

// WriteJSON writes data as a JSON body with the given HTTP status code.
//
// Order matters: Content-Type must be set before WriteHeader, and
// WriteHeader before any body bytes.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Message wraps a plain message into the standard envelope.
func Message(msg string) Body {
	return Body{Message: msg}
}

// Internal wraps an internal failure: a generic message for the client
// plus the underlying error text for diagnosis.
func Internal(msg string, err error) Body {
	return Body{Message: msg, Error: err.Error()}
}
