package routes

import (
	"github.com/go-chi/chi/v5"

	postHandlers "Channelcast/internal/api/handlers/post"
	"Channelcast/internal/api/middleware"
	"Channelcast/internal/core/posts"
)

// RegisterPostRoutes registers post creation, deletion and view endpoints
func RegisterPostRoutes(
	r chi.Router,
	postService posts.Service,
	authMiddleware *middleware.JWTAuthMiddleware,
) {
	createHandler := postHandlers.NewCreateHandler(postService)
	deleteHandler := postHandlers.NewDeleteHandler(postService)
	viewHandler := postHandlers.NewRecordViewHandler(postService)

	// POST /api/channels/{channelID}/posts
	r.With(authMiddleware.RequireAuth).Post("/api/channels/{channelID}/posts", createHandler.HandleCreate)

	// DELETE /api/posts/{postID}
	r.With(authMiddleware.RequireAuth).Delete("/api/posts/{postID}", deleteHandler.HandleDelete)

	// POST /api/posts/{postID}/views
	// Views are counted for anonymous readers too
	r.With(authMiddleware.OptionalAuth).Post("/api/posts/{postID}/views", viewHandler.HandleRecordView)
}
