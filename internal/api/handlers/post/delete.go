package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Channelcast/internal/api/middleware"
	"Channelcast/internal/core/posts"
)

// DeleteHandler handles post tombstoning
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new post deletion handler
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete tombstones a post
// DELETE /api/posts/{postID}
// The paginator keeps skipping the tombstone without breaking cursors.
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "User must be authenticated")
		return
	}

	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "post ID is required")
		return
	}

	if err := h.service.DeletePost(r.Context(), postID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
