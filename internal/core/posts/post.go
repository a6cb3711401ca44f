package posts

import (
	"time"

	"Channelcast/internal/core/reactions"
)

// MediaType classifies an attached media object
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether mt is a supported media type
func (mt MediaType) Valid() bool {
	return mt == MediaImage || mt == MediaVideo
}

// PostType is derived from the post's content at creation time
type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeMedia PostType = "media"
)

// Post is a channel broadcast entry.
//
// SequenceNumber is assigned exactly once at creation, is strictly increasing
// and unique within the channel, and serves as the pagination cursor. It is
// immutable for the post's lifetime. Gaps are possible (a failed write burns
// the allocated number) and readers must tolerate them.
type Post struct {
	ID             string        `json:"id"`
	ChannelID      string        `json:"channel_id"`
	AuthorID       string        `json:"author_id"`
	SequenceNumber int64         `json:"sequence_number"`
	Text           *string       `json:"text,omitempty"`
	MediaURL       *string       `json:"media_url,omitempty"`
	MediaType      *MediaType    `json:"media_type,omitempty"`
	PostType       PostType      `json:"post_type"`
	Reactions      reactions.Map `json:"reactions"`
	Views          int64         `json:"views"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	DeletedAt      *time.Time    `json:"-"`
	ClientToken    *string       `json:"-"`
}

// CreatePostRequest represents input for creating a new post.
//
// The caller is responsible for membership/permission checks ("who may post")
// before invoking the service; AuthorID is the already-authenticated user.
// ClientToken is an optional idempotency key: a retry carrying the same token
// returns the originally created post instead of double-posting.
type CreatePostRequest struct {
	ChannelID   string     `json:"channel_id"`
	AuthorID    string     `json:"author_id"`
	Text        *string    `json:"text,omitempty"`
	MediaURL    *string    `json:"media_url,omitempty"`
	MediaType   *MediaType `json:"media_type,omitempty"`
	ClientToken *string    `json:"client_token,omitempty"`
}

// maxTextLength bounds post text to keep rows and pages small
const maxTextLength = 4096
