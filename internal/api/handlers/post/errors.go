package post

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Channelcast/internal/core/posts"
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
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

// handleServiceError maps post service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, posts.ErrChannelNotFound):
		writeError(w, http.StatusNotFound, "ChannelNotFound", "Channel not found")
	case errors.Is(err, posts.ErrNotFound):
		writeError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	case errors.Is(err, posts.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "NotAuthorized", "Only the post author can do that")
	case errors.Is(err, posts.ErrSequenceConflict):
		// Retryable: a retry draws a fresh sequence number
		writeError(w, http.StatusConflict, "SequenceConflict", "Concurrent post creation, please retry")
	default:
		log.Printf("ERROR: Post service error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while handling the post")
	}
}
