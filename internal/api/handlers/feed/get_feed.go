package feed

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Channelcast/internal/api/middleware"
	"Channelcast/internal/core/feed"
)

// GetFeedHandler handles channel feed page retrieval
type GetFeedHandler struct {
	service feed.Service
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(service feed.Service) *GetFeedHandler {
	return &GetFeedHandler{service: service}
}

// HandleGetFeed returns one backward page of a channel's posts
// GET /api/channels/{channelID}/posts?limit=10&before_sequence=42
// Requires authentication (channel subscription is checked upstream).
func (h *GetFeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "User must be authenticated to view the feed")
		return
	}

	req, err := h.parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	page, err := h.service.LoadPage(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// parseRequest parses path and query parameters into a LoadPageRequest
func (h *GetFeedHandler) parseRequest(r *http.Request) (feed.LoadPageRequest, error) {
	req := feed.LoadPageRequest{
		ChannelID: chi.URLParam(r, "channelID"),
		PageSize:  feed.DefaultPageSize,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			req.PageSize = limit
		}
	}

	// before_sequence is an exclusive numeric boundary; whether the post it
	// was read from still exists is irrelevant
	if beforeStr := r.URL.Query().Get("before_sequence"); beforeStr != "" {
		before, err := strconv.ParseInt(beforeStr, 10, 64)
		if err != nil {
			return req, feed.NewValidationError("before_sequence", "before_sequence must be an integer")
		}
		req.BeforeSequence = &before
	}

	return req, nil
}
