package reactions

import "context"

// Service defines the business logic interface for reaction toggles
type Service interface {
	// Toggle flips the (post, user, type) reaction state and returns the
	// authoritative post-level reaction map. Callers must replace their local
	// copy with the returned map rather than merging: a capacity rejection
	// returns the map unchanged with the limit named in the response.
	Toggle(ctx context.Context, req ToggleRequest) (*ToggleResponse, error)
}

// Repository defines the data access interface for reaction state
type Repository interface {
	// Toggle loads the post's reaction map under a per-post lock, applies the
	// toggle state machine, persists the result and returns the authoritative
	// map plus what happened. Returns ErrPostNotFound for missing or
	// tombstoned posts.
	Toggle(ctx context.Context, postID, userID string, rt Type) (Map, Outcome, error)
}

// ToggleRequest identifies the reaction being toggled
type ToggleRequest struct {
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	Reaction Type   `json:"reaction_type"`
}

// ToggleResponse carries the authoritative reaction map after the toggle.
// Applied is false when a capacity rule rejected an add; Limit then names
// the rule so the UI can surface a "limit reached" signal.
type ToggleResponse struct {
	Reactions Map   `json:"reactions"`
	Applied   bool  `json:"applied"`
	Limit     Limit `json:"limit,omitempty"`
}
