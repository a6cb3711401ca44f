package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"Channelcast/internal/core/channels"
)

type postgresChannelRepo struct {
	db *sql.DB
}

// NewChannelRepository creates a new PostgreSQL channel repository
func NewChannelRepository(db *sql.DB) channels.Repository {
	return &postgresChannelRepo{db: db}
}

// Create registers a channel counter row starting at sequence zero
func (r *postgresChannelRepo) Create(ctx context.Context, channel *channels.Channel) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO channels (id, name, last_sequence, created_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
		RETURNING created_at, updated_at
	`, channel.ID, channel.Name).Scan(&channel.CreatedAt, &channel.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("channel already exists: %s", channel.ID)
		}
		return fmt.Errorf("failed to insert channel: %w", err)
	}
	return nil
}

// GetByID retrieves a channel with its current sequence counter
func (r *postgresChannelRepo) GetByID(ctx context.Context, id string) (*channels.Channel, error) {
	var ch channels.Channel
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, last_sequence, created_at, updated_at
		FROM channels WHERE id = $1
	`, id).Scan(&ch.ID, &ch.Name, &ch.LastSequence, &ch.CreatedAt, &ch.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, channels.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return &ch, nil
}
