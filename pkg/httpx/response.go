package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the structured error payload returned on every rejected
// request: {"status": 401, "message": "unauthorized", "detail": "..."}.
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code. Responses
// carrying tokens must not be cached, so no-store is set unconditionally.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the structured error body with the given status.
func WriteError(w http.ResponseWriter, status int, message, detail string) {
	WriteJSON(w, status, ErrorBody{Status: status, Message: message, Detail: detail})
}

// NoCache sets Cache-Control and Pragma headers to prevent caching of
// sensitive responses.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
