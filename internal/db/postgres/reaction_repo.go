package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"Channelcast/internal/core/reactions"
)

type postgresReactionRepo struct {
	db *sql.DB
}

// NewReactionRepository creates a new PostgreSQL reaction repository
func NewReactionRepository(db *sql.DB) reactions.Repository {
	return &postgresReactionRepo{db: db}
}

// Toggle runs the reaction state machine under the post's row lock: the
// SELECT ... FOR UPDATE serializes concurrent toggles on the same post (a
// read-modify-write of the full map would otherwise lose updates) while
// toggles on different posts never contend. The UPDATE is skipped when a
// capacity rule rejected the add, since the map is unchanged.
func (r *postgresReactionRepo) Toggle(ctx context.Context, postID, userID string, rt reactions.Type) (reactions.Map, reactions.Outcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, reactions.Outcome{}, fmt.Errorf("failed to begin toggle transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var reactionsJSON []byte
	err = tx.QueryRowContext(ctx, `
		SELECT reactions FROM posts
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, postID).Scan(&reactionsJSON)
	if err == sql.ErrNoRows {
		return nil, reactions.Outcome{}, reactions.ErrPostNotFound
	}
	if err != nil {
		return nil, reactions.Outcome{}, fmt.Errorf("failed to lock post reactions: %w", err)
	}

	m := make(reactions.Map)
	if len(reactionsJSON) > 0 {
		if err := json.Unmarshal(reactionsJSON, &m); err != nil {
			return nil, reactions.Outcome{}, fmt.Errorf("failed to parse reactions for post %s: %w", postID, err)
		}
	}

	m, outcome := reactions.Apply(m, userID, rt)

	if outcome.Changed() {
		updated, err := json.Marshal(m)
		if err != nil {
			return nil, reactions.Outcome{}, fmt.Errorf("failed to serialize reactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE posts SET reactions = $2, updated_at = NOW()
			WHERE id = $1
		`, postID, updated); err != nil {
			return nil, reactions.Outcome{}, fmt.Errorf("failed to store reactions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, reactions.Outcome{}, fmt.Errorf("failed to commit reaction toggle: %w", err)
	}

	return m, outcome, nil
}
