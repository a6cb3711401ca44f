package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Channelcast/internal/core/feed"
	"Channelcast/internal/core/posts"
	"Channelcast/internal/db/postgres"
)

// TestFeedPagination walks a 25-post channel backward through the real
// repository: full pages report more, the final short page terminates, and
// tombstones are skipped without breaking the cursor.
func TestFeedPagination(t *testing.T) {
	db := setupTestDB(t)
	createTestChannel(t, db, "it-feed")
	ctx := context.Background()

	postRepo := postgres.NewPostRepository(db)
	postService := posts.NewService(postRepo, nil, nil)
	feedService := feed.NewService(postRepo)

	created := make([]*posts.Post, 0, 25)
	for i := 1; i <= 25; i++ {
		p, err := postService.CreatePost(ctx, posts.CreatePostRequest{
			ChannelID: "it-feed",
			AuthorID:  "it-author",
			Text:      strPtr(fmt.Sprintf("post %d", i)),
		})
		require.NoError(t, err)
		require.Equal(t, int64(i), p.SequenceNumber, "sequence numbers must be dense and increasing")
		created = append(created, p)
	}

	// Page 1: 25..16
	page, err := feedService.LoadPage(ctx, feed.LoadPageRequest{ChannelID: "it-feed", PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Posts, 10)
	assert.Equal(t, int64(25), page.Posts[0].SequenceNumber)
	assert.Equal(t, int64(16), page.Posts[9].SequenceNumber)
	assert.True(t, page.HasMore)

	// Page 2: 15..6
	cursor := page.Posts[9].SequenceNumber
	page, err = feedService.LoadPage(ctx, feed.LoadPageRequest{ChannelID: "it-feed", BeforeSequence: &cursor, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Posts, 10)
	assert.Equal(t, int64(15), page.Posts[0].SequenceNumber)
	assert.True(t, page.HasMore)

	// Page 3: 5..1, short, terminates
	cursor = page.Posts[9].SequenceNumber
	page, err = feedService.LoadPage(ctx, feed.LoadPageRequest{ChannelID: "it-feed", BeforeSequence: &cursor, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Posts, 5)
	assert.Equal(t, int64(1), page.Posts[4].SequenceNumber)
	assert.False(t, page.HasMore)

	// Tombstone post 20; the page around it shrinks but the cursor still
	// works, including when it points at the deleted post itself
	require.NoError(t, postRepo.Tombstone(ctx, created[19].ID))

	cursor = 21
	page, err = feedService.LoadPage(ctx, feed.LoadPageRequest{ChannelID: "it-feed", BeforeSequence: &cursor, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	assert.Equal(t, int64(19), page.Posts[0].SequenceNumber, "tombstoned post 20 must be skipped")

	cursor = 20 // cursor taken from the now-deleted post
	page, err = feedService.LoadPage(ctx, feed.LoadPageRequest{ChannelID: "it-feed", BeforeSequence: &cursor, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(19), page.Posts[0].SequenceNumber)
}

// TestFeedPagination_EmptyAndUnknownChannel verifies reads never fail on
// missing data: both yield an empty page
func TestFeedPagination_EmptyAndUnknownChannel(t *testing.T) {
	db := setupTestDB(t)
	createTestChannel(t, db, "it-empty")
	ctx := context.Background()

	feedService := feed.NewService(postgres.NewPostRepository(db))

	page, err := feedService.LoadPage(ctx, feed.LoadPageRequest{ChannelID: "it-empty"})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)

	page, err = feedService.LoadPage(ctx, feed.LoadPageRequest{ChannelID: "it-" + uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)
}
