package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes body with the given status. Encoding failures can only be logged
// because the status line is already sent.
func WriteJSON(w http.ResponseWriter, status int, body any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response body", "status", status, "error", err)
	}
}

// WriteError writes msg wrapped in an ErrorResponse
func WriteError(w http.ResponseWriter, status int, msg string, log *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Error: msg}, log)
}

// NotFound returns a JSON 404 handler
func NotFound(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Path %s not found", r.URL.Path), log)
	}
}

// MethodNotAllowed returns a JSON 405 handler
func MethodNotAllowed(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path), log)
	}
}
