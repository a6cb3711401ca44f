package feed

import (
	"context"

	"Channelcast/internal/core/posts"
)

// Service defines the feed pagination interface
type Service interface {
	// LoadPage returns one backward page of the channel feed. Pagination
	// reads have no side effects and are idempotent to repeat.
	LoadPage(ctx context.Context, req LoadPageRequest) (*Page, error)
}

// Repository is the slice of the post store the paginator reads from.
// Satisfied by the posts repository.
type Repository interface {
	GetRange(ctx context.Context, channelID string, beforeSequence *int64, limit int) ([]*posts.Post, error)
}
