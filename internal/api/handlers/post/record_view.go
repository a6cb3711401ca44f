package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Channelcast/internal/core/posts"
)

// RecordViewHandler handles best-effort view counting
type RecordViewHandler struct {
	service posts.Service
}

// NewRecordViewHandler creates a new view recording handler
func NewRecordViewHandler(service posts.Service) *RecordViewHandler {
	return &RecordViewHandler{service: service}
}

// HandleRecordView registers one view for a post
// POST /api/posts/{postID}/views
// The counter is monotonically non-decreasing but not linearizable; the
// increment may be buffered and lost on a crash.
func (h *RecordViewHandler) HandleRecordView(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "post ID is required")
		return
	}

	if err := h.service.RecordView(r.Context(), postID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
