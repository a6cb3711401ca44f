package routes

import (
	"github.com/go-chi/chi/v5"

	feedHandlers "Channelcast/internal/api/handlers/feed"
	"Channelcast/internal/api/middleware"
	feedCore "Channelcast/internal/core/feed"
)

// RegisterFeedRoutes registers the channel feed pagination endpoint
func RegisterFeedRoutes(
	r chi.Router,
	feedService feedCore.Service,
	authMiddleware *middleware.JWTAuthMiddleware,
) {
	getFeedHandler := feedHandlers.NewGetFeedHandler(feedService)

	// GET /api/channels/{channelID}/posts?limit=10&before_sequence=42
	r.With(authMiddleware.RequireAuth).Get("/api/channels/{channelID}/posts", getFeedHandler.HandleGetFeed)
}
