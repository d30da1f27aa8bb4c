package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON renders v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError renders the uniform error body. Internal detail never reaches
// the client; callers log it server-side and pass a generic message here.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// serverError logs the cause and responds with a generic 500.
func serverError(w http.ResponseWriter, context string, err error) {
	slog.Error(context, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody parses a JSON request body into dst. Returns false (after
// responding 400) when the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
