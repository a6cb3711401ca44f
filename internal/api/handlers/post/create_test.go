package post

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Channelcast/internal/api/middleware"
	"Channelcast/internal/core/posts"
)

// stubPostService records the last request and serves canned results
type stubPostService struct {
	created   *posts.Post
	createErr error
	deleteErr error
	viewErr   error

	gotCreate posts.CreatePostRequest
	deleted   [2]string // postID, userID
	viewed    string
}

func (s *stubPostService) CreatePost(_ context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
	s.gotCreate = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.created, nil
}

func (s *stubPostService) GetPost(_ context.Context, id string) (*posts.Post, error) {
	return nil, posts.ErrNotFound
}

func (s *stubPostService) DeletePost(_ context.Context, postID, userID string) error {
	s.deleted = [2]string{postID, userID}
	return s.deleteErr
}

func (s *stubPostService) RecordView(_ context.Context, postID string) error {
	s.viewed = postID
	return s.viewErr
}

func newPostRouter(svc posts.Service) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/channels/{channelID}/posts", NewCreateHandler(svc).HandleCreate)
	r.Delete("/api/posts/{postID}", NewDeleteHandler(svc).HandleDelete)
	r.Post("/api/posts/{postID}/views", NewRecordViewHandler(svc).HandleRecordView)
	return r
}

func asUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestHandleCreate_Success(t *testing.T) {
	text := "hello world"
	svc := &stubPostService{created: &posts.Post{
		ID:             "post-1",
		ChannelID:      "general",
		AuthorID:       "user-alice",
		SequenceNumber: 7,
		Text:           &text,
		PostType:       posts.PostTypeText,
	}}
	router := newPostRouter(svc)

	body := []byte(`{"text":"hello world","client_token":"tok-1"}`)
	req := asUser(httptest.NewRequest("POST", "/api/channels/general/posts", bytes.NewReader(body)), "user-alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	// The author comes from the token, never the body
	assert.Equal(t, "general", svc.gotCreate.ChannelID)
	assert.Equal(t, "user-alice", svc.gotCreate.AuthorID)
	require.NotNil(t, svc.gotCreate.ClientToken)
	assert.Equal(t, "tok-1", *svc.gotCreate.ClientToken)

	var resp struct {
		ID             string `json:"id"`
		SequenceNumber int64  `json:"sequence_number"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "post-1", resp.ID)
	assert.Equal(t, int64(7), resp.SequenceNumber)
}

func TestHandleCreate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", posts.NewValidationError("text", "post requires text or media"), http.StatusBadRequest, "InvalidRequest"},
		{"unknown channel", posts.ErrChannelNotFound, http.StatusNotFound, "ChannelNotFound"},
		{"sequence conflict", posts.ErrSequenceConflict, http.StatusConflict, "SequenceConflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubPostService{createErr: tc.err}
			router := newPostRouter(svc)

			req := asUser(httptest.NewRequest("POST", "/api/channels/general/posts", bytes.NewReader([]byte(`{"text":"hi"}`))), "user-alice")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantType)
		})
	}
}

func TestHandleCreate_RequiresUser(t *testing.T) {
	router := newPostRouter(&stubPostService{})

	req := httptest.NewRequest("POST", "/api/channels/general/posts", bytes.NewReader([]byte(`{"text":"hi"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleDelete(t *testing.T) {
	svc := &stubPostService{}
	router := newPostRouter(svc)

	req := asUser(httptest.NewRequest("DELETE", "/api/posts/post-1", nil), "user-alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{"post-1", "user-alice"}, svc.deleted)

	// Non-authors get a 403
	svc.deleteErr = posts.ErrNotAuthorized
	req = asUser(httptest.NewRequest("DELETE", "/api/posts/post-1", nil), "user-mallory")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleRecordView(t *testing.T) {
	svc := &stubPostService{}
	router := newPostRouter(svc)

	// Views don't require authentication
	req := httptest.NewRequest("POST", "/api/posts/post-1/views", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "post-1", svc.viewed)
}
