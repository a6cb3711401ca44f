package feed

import (
	"encoding/json"
	"log"
	"net/http"

	"Channelcast/internal/core/feed"
)

// apiError is the JSON error envelope
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, errorType, message string) {
	writeJSON(w, status, apiError{Error: errorType, Message: message})
}

// writeJSON writes a JSON response body
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: Failed to encode feed response: %v", err)
	}
}

// handleServiceError maps feed service errors to HTTP responses.
// Note there is no not-found case: dangling cursors and missing channels
// produce an empty page, never a failure.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case feed.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		log.Printf("ERROR: Feed service error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while fetching the feed")
	}
}
