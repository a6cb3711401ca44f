package posts

import "context"

// Service defines the business logic interface for posts
type Service interface {
	// CreatePost validates the request, allocates the channel's next sequence
	// number and persists the post, all atomically. Idempotent when the
	// request carries a ClientToken.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// GetPost retrieves a single live (non-tombstoned) post
	GetPost(ctx context.Context, id string) (*Post, error)

	// DeletePost tombstones a post. Only the author may delete through this
	// service; channel-admin overrides live upstream.
	DeletePost(ctx context.Context, postID, userID string) error

	// RecordView registers a best-effort view. Never blocks on the durable
	// store when a counter buffer is configured.
	RecordView(ctx context.Context, postID string) error
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create persists a new post, allocating its sequence number from the
	// channel counter inside the same transaction. On success the post's
	// SequenceNumber, CreatedAt and UpdatedAt are filled in.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a live post by ID, ErrNotFound if missing/tombstoned
	GetByID(ctx context.Context, id string) (*Post, error)

	// GetByClientToken resolves an idempotency token to the post it created
	GetByClientToken(ctx context.Context, channelID, token string) (*Post, error)

	// GetRange returns live posts with sequence_number < beforeSequence
	// (unbounded when nil), descending by sequence, at most limit items.
	// Tombstoned posts are skipped without breaking cursor continuity.
	GetRange(ctx context.Context, channelID string, beforeSequence *int64, limit int) ([]*Post, error)

	// Tombstone soft-deletes a post so the paginator skips it
	Tombstone(ctx context.Context, id string) error

	// AddViews bumps the view counter by delta. Best-effort: a missing or
	// tombstoned post is not an error.
	AddViews(ctx context.Context, id string, delta int64) error
}
