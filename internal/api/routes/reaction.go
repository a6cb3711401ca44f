package routes

import (
	"github.com/go-chi/chi/v5"

	reactionHandlers "Channelcast/internal/api/handlers/reaction"
	"Channelcast/internal/api/middleware"
	"Channelcast/internal/core/reactions"
)

// RegisterReactionRoutes registers the reaction toggle endpoint
func RegisterReactionRoutes(
	r chi.Router,
	reactionService reactions.Service,
	authMiddleware *middleware.JWTAuthMiddleware,
) {
	toggleHandler := reactionHandlers.NewToggleHandler(reactionService)

	// POST /api/posts/{postID}/reactions
	r.With(authMiddleware.RequireAuth).Post("/api/posts/{postID}/reactions", toggleHandler.HandleToggle)
}
