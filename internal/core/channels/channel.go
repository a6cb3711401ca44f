package channels

import (
	"context"
	"errors"
	"time"
)

// Channel is the minimal record this engine keeps about a channel: the
// identity plus the per-channel sequence counter. Channel membership,
// permissions and presentation live upstream.
type Channel struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastSequence int64     `json:"last_sequence"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ErrNotFound is returned when the channel doesn't exist
var ErrNotFound = errors.New("channel not found")

// Repository defines the data access interface for channel counter rows
type Repository interface {
	// Create registers a channel with its sequence counter at zero
	Create(ctx context.Context, channel *Channel) error

	// GetByID retrieves a channel, ErrNotFound if missing
	GetByID(ctx context.Context, id string) (*Channel, error)
}
