package post

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Channelcast/internal/api/middleware"
	"Channelcast/internal/core/posts"
)

// CreateHandler handles post creation
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new post creation handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// createPostBody is the request payload for creating a post
type createPostBody struct {
	Text        *string          `json:"text,omitempty"`
	MediaURL    *string          `json:"media_url,omitempty"`
	MediaType   *posts.MediaType `json:"media_type,omitempty"`
	ClientToken *string          `json:"client_token,omitempty"`
}

// HandleCreate creates a new post in a channel
// POST /api/channels/{channelID}/posts
// Requires authentication; posting permission is enforced upstream.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "User must be authenticated to post")
		return
	}

	channelID := chi.URLParam(r, "channelID")
	if channelID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "channel ID is required")
		return
	}

	var body createPostBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
		return
	}

	created, err := h.service.CreatePost(r.Context(), posts.CreatePostRequest{
		ChannelID:   channelID,
		AuthorID:    userID,
		Text:        body.Text,
		MediaURL:    body.MediaURL,
		MediaType:   body.MediaType,
		ClientToken: body.ClientToken,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
