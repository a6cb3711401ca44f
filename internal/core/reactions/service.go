package reactions

import (
	"context"
	"fmt"
	"log/slog"
)

// reactionService implements the Service interface for reaction toggles
type reactionService struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new reaction service instance
func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &reactionService{
		repo:   repo,
		logger: logger,
	}
}

// Toggle validates the request and applies the toggle through the repository.
// The state machine itself runs inside the repository's per-post critical
// section so concurrent toggles on the same post never lose updates.
func (s *reactionService) Toggle(ctx context.Context, req ToggleRequest) (*ToggleResponse, error) {
	if req.PostID == "" {
		return nil, NewValidationError("post_id", "post_id is required")
	}
	if req.UserID == "" {
		return nil, NewValidationError("user_id", "user_id is required")
	}
	if !req.Reaction.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, req.Reaction)
	}

	m, outcome, err := s.repo.Toggle(ctx, req.PostID, req.UserID, req.Reaction)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle reaction: %w", err)
	}

	switch {
	case outcome.Added:
		s.logger.Info("reaction added",
			"post", req.PostID,
			"user", req.UserID,
			"type", req.Reaction)
	case outcome.Removed:
		s.logger.Info("reaction removed",
			"post", req.PostID,
			"user", req.UserID,
			"type", req.Reaction)
	default:
		s.logger.Info("reaction rejected by capacity rule",
			"post", req.PostID,
			"user", req.UserID,
			"type", req.Reaction,
			"limit", outcome.Limit)
	}

	if m == nil {
		m = make(Map)
	}

	return &ToggleResponse{
		Reactions: m,
		Applied:   outcome.Changed(),
		Limit:     outcome.Limit,
	}, nil
}
