package reaction

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Channelcast/internal/api/middleware"
	"Channelcast/internal/core/reactions"
)

// ToggleHandler handles reaction toggles
type ToggleHandler struct {
	service reactions.Service
}

// NewToggleHandler creates a new reaction toggle handler
func NewToggleHandler(service reactions.Service) *ToggleHandler {
	return &ToggleHandler{service: service}
}

// toggleBody is the request payload for toggling a reaction
type toggleBody struct {
	ReactionType reactions.Type `json:"reaction_type"`
}

// HandleToggle flips the caller's reaction on a post
// POST /api/posts/{postID}/reactions
//
// The response always carries the authoritative reaction map; clients must
// replace their local copy with it. A capacity rejection is a 200 with
// applied=false and the limit named, not an error.
func (h *ToggleHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "User must be authenticated to react")
		return
	}

	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "post ID is required")
		return
	}

	var body toggleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
		return
	}

	resp, err := h.service.Toggle(r.Context(), reactions.ToggleRequest{
		PostID:   postID,
		UserID:   userID,
		Reaction: body.ReactionType,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
