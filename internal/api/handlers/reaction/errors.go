package reaction

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Channelcast/internal/core/reactions"
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
		log.Printf("ERROR: Failed to encode reaction response: %v", err)
	}
}

// handleServiceError maps reaction service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case reactions.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, reactions.ErrUnknownType):
		writeError(w, http.StatusBadRequest, "InvalidReactionType", "Reaction type is not in the catalogue")
	case errors.Is(err, reactions.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	default:
		log.Printf("ERROR: Reaction service error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while toggling the reaction")
	}
}
