package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Channelcast/internal/core/posts"
)

// fakePostStore paginates over an in-memory, live-posts-only slice the same
// way the Postgres repository does: strictly below the cursor, descending,
// at most limit.
type fakePostStore struct {
	posts map[string][]*posts.Post // channelID -> ascending by sequence
	err   error
}

func (s *fakePostStore) GetRange(_ context.Context, channelID string, beforeSequence *int64, limit int) ([]*posts.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*posts.Post
	all := s.posts[channelID]
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		p := all[i]
		if beforeSequence != nil && p.SequenceNumber >= *beforeSequence {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func seedChannel(channelID string, count int) *fakePostStore {
	store := &fakePostStore{posts: make(map[string][]*posts.Post)}
	for i := 1; i <= count; i++ {
		text := fmt.Sprintf("post %d", i)
		store.posts[channelID] = append(store.posts[channelID], &posts.Post{
			ID:             fmt.Sprintf("%s-%d", channelID, i),
			ChannelID:      channelID,
			AuthorID:       "author",
			SequenceNumber: int64(i),
			Text:           &text,
		})
	}
	return store
}

func seqNumbers(page *Page) []int64 {
	out := make([]int64, 0, len(page.Posts))
	for _, p := range page.Posts {
		out = append(out, p.SequenceNumber)
	}
	return out
}

func TestLoadPage_WalksBackwardToExhaustion(t *testing.T) {
	svc := NewService(seedChannel("general", 25))
	ctx := context.Background()

	// First page: newest ten, more remain
	page1, err := svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{25, 24, 23, 22, 21, 20, 19, 18, 17, 16}, seqNumbers(page1))
	assert.True(t, page1.HasMore)

	// Second page resumes strictly below the oldest seen sequence
	cursor := page1.Posts[len(page1.Posts)-1].SequenceNumber
	page2, err := svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", BeforeSequence: &cursor, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{15, 14, 13, 12, 11, 10, 9, 8, 7, 6}, seqNumbers(page2))
	assert.True(t, page2.HasMore)

	// Final short page reports no more
	cursor = page2.Posts[len(page2.Posts)-1].SequenceNumber
	page3, err := svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", BeforeSequence: &cursor, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, seqNumbers(page3))
	assert.False(t, page3.HasMore)
}

func TestLoadPage_ExactMultipleNeedsOneExtraPage(t *testing.T) {
	// 20 posts with page size 10: the second page is full so HasMore stays
	// true, and only the third (empty) page terminates. That extra round
	// trip is the accepted cost of the page-full heuristic.
	svc := NewService(seedChannel("general", 20))
	ctx := context.Background()

	page1, err := svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", PageSize: 10})
	require.NoError(t, err)
	assert.True(t, page1.HasMore)

	cursor := page1.Posts[len(page1.Posts)-1].SequenceNumber
	page2, err := svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", BeforeSequence: &cursor, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Posts, 10)
	assert.True(t, page2.HasMore, "full final page reports HasMore true")

	cursor = page2.Posts[len(page2.Posts)-1].SequenceNumber
	page3, err := svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", BeforeSequence: &cursor, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page3.Posts)
	assert.False(t, page3.HasMore)
}

func TestLoadPage_EmptyChannel(t *testing.T) {
	svc := NewService(&fakePostStore{posts: make(map[string][]*posts.Post)})

	page, err := svc.LoadPage(context.Background(), LoadPageRequest{ChannelID: "empty"})
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)
}

func TestLoadPage_DanglingCursor(t *testing.T) {
	// A cursor read from a since-deleted post is just a number; pagination
	// continues below it without error
	store := seedChannel("general", 10)
	store.posts["general"] = append(store.posts["general"][:4], store.posts["general"][5:]...) // drop seq 5
	svc := NewService(store)

	cursor := int64(5)
	page, err := svc.LoadPage(context.Background(), LoadPageRequest{ChannelID: "general", BeforeSequence: &cursor, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2, 1}, seqNumbers(page))
	assert.False(t, page.HasMore)
}

func TestLoadPage_DefaultsAndLimits(t *testing.T) {
	svc := NewService(seedChannel("general", 30))
	ctx := context.Background()

	// Zero page size defaults
	page, err := svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general"})
	require.NoError(t, err)
	assert.Len(t, page.Posts, DefaultPageSize)

	// Over the cap is rejected
	_, err = svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", PageSize: MaxPageSize + 1})
	assert.True(t, IsValidationError(err))

	// Missing channel ID is rejected
	_, err = svc.LoadPage(ctx, LoadPageRequest{})
	assert.True(t, IsValidationError(err))

	// Non-positive cursor is rejected
	bad := int64(0)
	_, err = svc.LoadPage(ctx, LoadPageRequest{ChannelID: "general", BeforeSequence: &bad})
	assert.True(t, IsValidationError(err))
}
