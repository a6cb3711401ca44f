package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"Channelcast/internal/core/reactions"
)

// postService implements the Service interface for post operations
type postService struct {
	repo   Repository
	views  *ViewCounter // optional; nil falls through to the repository
	logger *slog.Logger
}

// NewService creates a new post service instance. The view counter is
// optional: pass nil to write view increments straight to the repository.
func NewService(repo Repository, views *ViewCounter, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		views:  views,
		logger: logger,
	}
}

// CreatePost validates and persists a new post. Sequence allocation happens
// inside the repository transaction, so no sequence number is visible to
// readers before its post row is committed.
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := s.validateCreate(&req); err != nil {
		return nil, err
	}

	// Idempotency: a replayed token returns the post it originally created
	if req.ClientToken != nil && *req.ClientToken != "" {
		existing, err := s.repo.GetByClientToken(ctx, req.ChannelID, *req.ClientToken)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to check idempotency token: %w", err)
		}
		if existing != nil {
			s.logger.Info("create replayed via idempotency token",
				"channel", req.ChannelID,
				"post", existing.ID,
				"author", req.AuthorID)
			return existing, nil
		}
	}

	postType := PostTypeText
	if req.MediaURL != nil && *req.MediaURL != "" {
		postType = PostTypeMedia
	}

	post := &Post{
		ID:          uuid.NewString(),
		ChannelID:   req.ChannelID,
		AuthorID:    req.AuthorID,
		Text:        req.Text,
		MediaURL:    req.MediaURL,
		MediaType:   req.MediaType,
		PostType:    postType,
		Reactions:   make(reactions.Map),
		ClientToken: req.ClientToken,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		// A concurrent retry with the same token won the race: return its post
		if errors.Is(err, ErrDuplicateClientToken) && req.ClientToken != nil {
			existing, lookupErr := s.repo.GetByClientToken(ctx, req.ChannelID, *req.ClientToken)
			if lookupErr == nil {
				return existing, nil
			}
			return nil, fmt.Errorf("failed to resolve replayed create: %w", lookupErr)
		}
		return nil, err
	}

	s.logger.Info("post created",
		"channel", post.ChannelID,
		"post", post.ID,
		"sequence", post.SequenceNumber,
		"author", post.AuthorID,
		"type", post.PostType)

	return post, nil
}

// GetPost retrieves a single live post
func (s *postService) GetPost(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, NewValidationError("id", "post id is required")
	}
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost tombstones a post after checking the caller authored it
func (s *postService) DeletePost(ctx context.Context, postID, userID string) error {
	if postID == "" {
		return NewValidationError("id", "post id is required")
	}
	if userID == "" {
		return NewValidationError("user_id", "user id is required")
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNotAuthorized
	}

	if err := s.repo.Tombstone(ctx, postID); err != nil {
		return fmt.Errorf("failed to tombstone post: %w", err)
	}

	s.logger.Info("post tombstoned",
		"channel", post.ChannelID,
		"post", post.ID,
		"sequence", post.SequenceNumber)

	return nil
}

// RecordView bumps the post's view counter. Monotonically non-decreasing,
// best-effort: increments buffered in the counter may be lost on crash.
func (s *postService) RecordView(ctx context.Context, postID string) error {
	if postID == "" {
		return NewValidationError("id", "post id is required")
	}
	if s.views != nil {
		return s.views.Record(ctx, postID)
	}
	return s.repo.AddViews(ctx, postID, 1)
}

func (s *postService) validateCreate(req *CreatePostRequest) error {
	if req.ChannelID == "" {
		return NewValidationError("channel_id", "channel_id is required")
	}
	if req.AuthorID == "" {
		return NewValidationError("author_id", "author_id is required")
	}

	hasText := req.Text != nil && *req.Text != ""
	hasMedia := req.MediaURL != nil && *req.MediaURL != ""
	if !hasText && !hasMedia {
		return NewValidationError("text", "post requires text or media")
	}
	if hasText && utf8.RuneCountInString(*req.Text) > maxTextLength {
		return NewValidationError("text", fmt.Sprintf("text must not exceed %d characters", maxTextLength))
	}
	if hasMedia {
		if req.MediaType == nil || !req.MediaType.Valid() {
			return NewValidationError("media_type", "media_type must be image or video when media_url is set")
		}
	}

	return nil
}
