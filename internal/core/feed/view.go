package feed

import (
	"context"
	"sync"
	"time"

	"Channelcast/internal/core/posts"
	"Channelcast/internal/core/reactions"
)

// PageLoader is the read side a FeedView paginates through. Satisfied by the
// feed Service or by an HTTP client wrapping it.
type PageLoader interface {
	LoadPage(ctx context.Context, req LoadPageRequest) (*Page, error)
}

// LoadState is the explicit load lifecycle of a FeedView. Transitions are
// Idle -> Loading -> Idle on success, Idle -> Loading -> Error on failure;
// a trigger arriving while Loading is suppressed (single-flight).
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateError
)

// PendingPost is a locally-created post that hasn't been confirmed by the
// server yet. Token is the correlation key used to reconcile it with the
// authoritative Post; matching is never done by content.
type PendingPost struct {
	Token     string
	ChannelID string
	AuthorID  string
	Text      *string
	MediaURL  *string
	MediaType *posts.MediaType
	CreatedAt time.Time
}

// Entry is one feed slot: exactly one of Pending or Confirmed is set.
// The two-variant shape makes reconciliation a matched replace rather than a
// heuristic diff.
type Entry struct {
	Pending   *PendingPost
	Confirmed *posts.Post
}

// FeedView is the per-channel-view read model: it owns the loaded window of
// a channel feed as the client renders it (ascending, newest at the tail),
// drives automatic backfill when a page under-fills the viewport, and
// reconciles optimistically-appended posts with their server-confirmed
// records.
//
// All shared mutable state lives behind the view's mutex; nothing here
// touches the post store, so every operation is safe to abandon mid-flight.
type FeedView struct {
	loader    PageLoader
	channelID string
	pageSize  int

	mu      sync.Mutex
	entries []Entry
	seen    map[string]struct{} // confirmed post IDs already held
	hasMore bool
	loaded  bool
	state   LoadState
	lastErr error
}

// NewFeedView creates a view over one channel's feed
func NewFeedView(loader PageLoader, channelID string, pageSize int) *FeedView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedView{
		loader:    loader,
		channelID: channelID,
		pageSize:  pageSize,
		seen:      make(map[string]struct{}),
		hasMore:   true,
	}
}

// LoadInitial fetches the most recent page and resets the confirmed window.
// Pending entries survive a reload: they are re-appended at the tail unless
// their confirmed record arrived in the page meanwhile.
func (v *FeedView) LoadInitial(ctx context.Context) error {
	v.mu.Lock()
	if v.state == StateLoading {
		v.mu.Unlock()
		return nil
	}
	v.state = StateLoading
	pending := v.pendingEntries()
	v.mu.Unlock()

	page, err := v.loader.LoadPage(ctx, LoadPageRequest{
		ChannelID: v.channelID,
		PageSize:  v.pageSize,
	})

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		// A failed load leaves the already-rendered window untouched
		v.state = StateError
		v.lastErr = err
		return err
	}

	v.entries = v.entries[:0]
	v.seen = make(map[string]struct{})
	// The page is newest-first; the view renders oldest-first
	for i := len(page.Posts) - 1; i >= 0; i-- {
		p := page.Posts[i]
		v.entries = append(v.entries, Entry{Confirmed: p})
		v.seen[p.ID] = struct{}{}
	}
	for _, e := range pending {
		v.entries = append(v.entries, e)
	}
	v.hasMore = page.HasMore
	v.loaded = true
	v.state = StateIdle
	v.lastErr = nil
	return nil
}

// LoadOlder fetches the page below the oldest held sequence number and
// prepends the new posts, dropping any whose ID is already present (a manual
// "load more" can race an automatic backfill over overlapping ranges).
// Returns the number of entries added. A call arriving while another load is
// in flight is suppressed and reports zero.
func (v *FeedView) LoadOlder(ctx context.Context) (int, error) {
	added, _, err := v.loadOlder(ctx)
	return added, err
}

func (v *FeedView) loadOlder(ctx context.Context) (added int, ran bool, err error) {
	v.mu.Lock()
	if v.state == StateLoading {
		v.mu.Unlock()
		return 0, false, nil
	}
	if !v.hasMore {
		v.mu.Unlock()
		return 0, false, nil
	}
	before := v.oldestSequenceLocked()
	v.state = StateLoading
	v.mu.Unlock()

	page, err := v.loader.LoadPage(ctx, LoadPageRequest{
		ChannelID:      v.channelID,
		BeforeSequence: before,
		PageSize:       v.pageSize,
	})

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.state = StateError
		v.lastErr = err
		return 0, true, err
	}

	var fresh []Entry
	// Reverse to ascending and dedupe against the held window
	for i := len(page.Posts) - 1; i >= 0; i-- {
		p := page.Posts[i]
		if _, dup := v.seen[p.ID]; dup {
			continue
		}
		fresh = append(fresh, Entry{Confirmed: p})
		v.seen[p.ID] = struct{}{}
	}
	if len(fresh) > 0 {
		v.entries = append(fresh, v.entries...)
	}
	v.hasMore = page.HasMore
	v.state = StateIdle
	v.lastErr = nil
	return len(fresh), true, nil
}

// Fill backfills until the rendered content covers the viewport or the feed
// is exhausted. measure reports (contentHeight, viewportHeight) and is
// re-invoked after every merge so the caller can re-measure the DOM (or
// whatever renders the entries). Fill is single-flight: a call overlapping
// another load is a no-op.
func (v *FeedView) Fill(ctx context.Context, measure func() (contentHeight, viewportHeight int)) error {
	for {
		content, viewport := measure()
		if content > viewport {
			return nil
		}

		v.mu.Lock()
		more := v.hasMore
		v.mu.Unlock()
		if !more {
			return nil
		}

		added, ran, err := v.loadOlder(ctx)
		if err != nil {
			return err
		}
		if !ran {
			// Another load is in flight; it will trigger its own fill check
			return nil
		}
		if added == 0 {
			// Page held nothing new (fully deduped); the cursor cannot
			// advance, so stop rather than spin
			return nil
		}
	}
}

// AppendLocal appends a not-yet-confirmed post at the tail of the view so it
// renders before the server acknowledges the create. Append-at-tail is the
// asserted ordering for fresh content; true order is only corrected by a
// later full reload.
func (v *FeedView) AppendLocal(p PendingPost) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	v.entries = append(v.entries, Entry{Pending: &p})
}

// Confirm replaces the pending entry carrying token with the authoritative
// post. If the confirmed post already arrived through a page load, the
// placeholder is dropped instead so no duplicate ever renders. Returns false
// when no pending entry holds the token.
func (v *FeedView) Confirm(token string, post *posts.Post) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, e := range v.entries {
		if e.Pending == nil || e.Pending.Token != token {
			continue
		}
		if _, dup := v.seen[post.ID]; dup {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
		} else {
			v.entries[i] = Entry{Confirmed: post}
			v.seen[post.ID] = struct{}{}
		}
		return true
	}
	return false
}

// Fail removes the pending entry carrying token after a failed create,
// leaving no partial state behind. Returns false when no such entry exists.
func (v *FeedView) Fail(token string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, e := range v.entries {
		if e.Pending != nil && e.Pending.Token == token {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			return true
		}
	}
	return false
}

// SetReactions replaces the held post's reaction map with the authoritative
// one returned by a toggle. Replace, never merge: toggles are not commutative
// with client-side prediction.
func (v *FeedView) SetReactions(postID string, m reactions.Map) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, e := range v.entries {
		if e.Confirmed != nil && e.Confirmed.ID == postID {
			e.Confirmed.Reactions = m
			return true
		}
	}
	return false
}

// RemovePost drops a confirmed post from the view (e.g. after a delete)
func (v *FeedView) RemovePost(postID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, e := range v.entries {
		if e.Confirmed != nil && e.Confirmed.ID == postID {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			delete(v.seen, postID)
			return true
		}
	}
	return false
}

// Entries returns a snapshot of the current window, oldest first
func (v *FeedView) Entries() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// HasMore reports whether older pages are believed to remain
func (v *FeedView) HasMore() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasMore
}

// State returns the current load state; Err returns the last load error
func (v *FeedView) State() LoadState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the error from the most recent failed load, nil after success
func (v *FeedView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// oldestSequenceLocked returns the smallest confirmed sequence number held,
// or nil when the window holds no confirmed posts yet. Callers hold v.mu.
func (v *FeedView) oldestSequenceLocked() *int64 {
	for _, e := range v.entries {
		if e.Confirmed != nil {
			seq := e.Confirmed.SequenceNumber
			return &seq
		}
	}
	return nil
}

// pendingEntries returns the pending entries in order. Callers hold v.mu.
func (v *FeedView) pendingEntries() []Entry {
	var out []Entry
	for _, e := range v.entries {
		if e.Pending != nil {
			out = append(out, e)
		}
	}
	return out
}
