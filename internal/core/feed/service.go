package feed

import (
	"context"
	"fmt"

	"Channelcast/internal/core/posts"
)

// feedService implements the Service interface for feed pagination
type feedService struct {
	repo Repository
}

// NewService creates a new feed service
func NewService(repo Repository) Service {
	return &feedService{repo: repo}
}

// LoadPage retrieves the most recent posts below the cursor, newest first.
// A channel with no posts (or an unknown channel: gaps and tombstones are
// expected, so a dangling cursor is not an error) yields an empty page with
// HasMore false.
func (s *feedService) LoadPage(ctx context.Context, req LoadPageRequest) (*Page, error) {
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	pagePosts, err := s.repo.GetRange(ctx, req.ChannelID, req.BeforeSequence, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed page: %w", err)
	}

	if pagePosts == nil {
		pagePosts = []*posts.Post{}
	}

	// HasMore is intentionally the page-full heuristic, not an exact count
	return &Page{
		Posts:   pagePosts,
		HasMore: len(pagePosts) == req.PageSize,
	}, nil
}

// validateRequest validates and defaults the page request parameters
func (s *feedService) validateRequest(req *LoadPageRequest) error {
	if req.ChannelID == "" {
		return NewValidationError("channel_id", "channel_id is required")
	}
	if req.PageSize <= 0 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		return NewValidationError("limit", fmt.Sprintf("limit must not exceed %d", MaxPageSize))
	}
	if req.BeforeSequence != nil && *req.BeforeSequence <= 0 {
		return NewValidationError("before_sequence", "before_sequence must be positive")
	}
	return nil
}
