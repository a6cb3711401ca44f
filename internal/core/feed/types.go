package feed

import (
	"Channelcast/internal/core/posts"
)

const (
	// DefaultPageSize is used when the caller doesn't specify a limit
	DefaultPageSize = 10

	// MaxPageSize caps a single page request
	MaxPageSize = 50
)

// LoadPageRequest asks for one backward page of a channel's feed.
// BeforeSequence is an exclusive upper bound on sequence numbers; nil means
// "most recent". It is treated purely as a numeric boundary: the post it was
// read from may have been tombstoned since, which changes nothing.
type LoadPageRequest struct {
	ChannelID      string
	BeforeSequence *int64
	PageSize       int
}

// Page is one slice of a channel feed, newest first.
//
// HasMore is the heuristic len(Posts) == PageSize, not an exact count: when
// the remaining posts happen to be an exact multiple of the page size the
// final page reports HasMore true and the next request comes back empty.
// This is the deliberate wire-compatible semantic; only eventual termination
// of backfill is required, not exactness.
type Page struct {
	Posts   []*posts.Post `json:"posts"`
	HasMore bool          `json:"has_more"`
}
