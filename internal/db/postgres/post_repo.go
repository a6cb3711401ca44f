package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"Channelcast/internal/core/posts"
	"Channelcast/internal/core/reactions"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// postColumns is the scan list shared by the single-post and range queries
const postColumns = `
	id, channel_id, author_id, sequence_number,
	text, media_url, media_type, post_type,
	reactions, views, created_at, updated_at
`

// Create allocates the channel's next sequence number and inserts the post
// in one transaction. The UPDATE on channels takes the row lock, so
// concurrent creations in the same channel serialize there and no sequence
// number becomes visible before its post row commits. If the insert fails
// after allocation, the number is burned (an acceptable gap).
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin create transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	err = tx.QueryRowContext(ctx, `
		UPDATE channels
		SET last_sequence = last_sequence + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING last_sequence
	`, post.ChannelID).Scan(&seq)
	if err == sql.ErrNoRows {
		return posts.ErrChannelNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to allocate sequence number: %w", err)
	}

	reactionsJSON, err := json.Marshal(post.Reactions)
	if err != nil {
		return fmt.Errorf("failed to serialize reactions: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (
			id, channel_id, author_id, sequence_number,
			text, media_url, media_type, post_type,
			reactions, views, client_token, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, 0, $10, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`,
		post.ID, post.ChannelID, post.AuthorID, seq,
		post.Text, post.MediaURL, mediaTypeValue(post.MediaType), post.PostType,
		reactionsJSON, post.ClientToken,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "posts_channel_sequence_key") {
			return posts.ErrSequenceConflict
		}
		if strings.Contains(err.Error(), "posts_channel_client_token_key") {
			return posts.ErrDuplicateClientToken
		}
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			return posts.ErrChannelNotFound
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post create: %w", err)
	}

	post.SequenceNumber = seq
	return nil
}

// GetByID retrieves a live post by ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE id = $1 AND deleted_at IS NULL
	`, postColumns), id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// GetByClientToken resolves an idempotency token to the post it created.
// Tombstoned posts still resolve here: a replayed create must not mint a
// second post just because the first was deleted meanwhile.
func (r *postgresPostRepo) GetByClientToken(ctx context.Context, channelID, token string) (*posts.Post, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE channel_id = $1 AND client_token = $2
	`, postColumns), channelID, token)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by client token: %w", err)
	}
	return post, nil
}

// GetRange returns live posts below the cursor, descending by sequence.
// The cursor is purely numeric: it doesn't matter whether the post it was
// read from still exists.
func (r *postgresPostRepo) GetRange(ctx context.Context, channelID string, beforeSequence *int64, limit int) ([]*posts.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE channel_id = $1 AND deleted_at IS NULL
	`, postColumns)
	args := []interface{}{channelID}

	if beforeSequence != nil {
		query += " AND sequence_number < $2"
		args = append(args, *beforeSequence)
	}
	query += fmt.Sprintf(" ORDER BY sequence_number DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query post range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*posts.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post range: %w", err)
	}

	return result, nil
}

// Tombstone soft-deletes a post; already-deleted or unknown IDs report ErrNotFound
func (r *postgresPostRepo) Tombstone(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to tombstone post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check tombstone result: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// AddViews bumps the view counter. Best-effort: a missing post is not an
// error, the increment is simply dropped.
func (r *postgresPostRepo) AddViews(ctx context.Context, id string, delta int64) error {
	if delta <= 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE posts SET views = views + $2 WHERE id = $1
	`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to add views: %w", err)
	}
	return nil
}

// rowScanner lets scanPost work for both QueryRow and Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var (
		post          posts.Post
		text          sql.NullString
		mediaURL      sql.NullString
		mediaType     sql.NullString
		reactionsJSON []byte
	)

	err := row.Scan(
		&post.ID, &post.ChannelID, &post.AuthorID, &post.SequenceNumber,
		&text, &mediaURL, &mediaType, &post.PostType,
		&reactionsJSON, &post.Views, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if text.Valid {
		post.Text = &text.String
	}
	if mediaURL.Valid {
		post.MediaURL = &mediaURL.String
	}
	if mediaType.Valid {
		mt := posts.MediaType(mediaType.String)
		post.MediaType = &mt
	}

	post.Reactions = make(reactions.Map)
	if len(reactionsJSON) > 0 {
		if err := json.Unmarshal(reactionsJSON, &post.Reactions); err != nil {
			return nil, fmt.Errorf("failed to parse reactions for post %s: %w", post.ID, err)
		}
	}

	return &post, nil
}

// mediaTypeValue converts the optional media type to a driver value
func mediaTypeValue(mt *posts.MediaType) interface{} {
	if mt == nil {
		return nil
	}
	return string(*mt)
}
