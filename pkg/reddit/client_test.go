package reddit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	mu       sync.Mutex
	messages []string
	errors   []bool
}

func (r *recordingReporter) Report(msg string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	r.errors = append(r.errors, isError)
}

func (r *recordingReporter) last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return "", false
	}
	return r.messages[len(r.messages)-1], r.errors[len(r.errors)-1]
}

type fakeAPI struct {
	tokenStatus   int
	tokenBody     any
	listingStatus int
	listingBody   any

	listingCalls atomic.Int32
	lastListing  atomic.Value
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "cid", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		writeJSON(w, f.tokenStatus, f.tokenBody)
	})
	mux.HandleFunc("/r/", func(w http.ResponseWriter, r *http.Request) {
		f.listingCalls.Add(1)
		f.lastListing.Store(r.URL.RequestURI())
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(w, f.listingStatus, f.listingBody)
	})
	return httptest.NewServer(mux)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(srv *httptest.Server, rep StatusReporter) *Client {
	return NewClient(Options{
		AuthURL: srv.URL + "/api/v1/access_token",
		APIURL:  srv.URL,
	}, httpclient.NewRestyClient(2*time.Second), rep)
}

var testCreds = domain.Credentials{ID: "cid", Secret: "secret"}

func listingBody(posts ...domain.Post) map[string]any {
	children := make([]map[string]any, 0, len(posts))
	for _, p := range posts {
		children = append(children, map[string]any{
			"kind": "t3",
			"data": map[string]any{"title": p.Title, "url": p.URL, "permalink": p.Permalink, "score": 10},
		})
	}
	return map[string]any{"kind": "Listing", "data": map[string]any{"children": children}}
}

func TestAccessTokenReturnsExactToken(t *testing.T) {
	api := &fakeAPI{tokenBody: map[string]any{"access_token": "tok-123", "token_type": "bearer", "expires_in": 86400}}
	srv := api.server(t)
	defer srv.Close()

	rep := &recordingReporter{}
	token, err := newTestClient(srv, rep).AccessToken(context.Background(), testCreds)

	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	msg, isErr := rep.last()
	assert.Equal(t, "Access token retrieved", msg)
	assert.False(t, isErr)
}

func TestAccessTokenFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"http error", http.StatusUnauthorized, map[string]any{"message": "Unauthorized"}},
		{"error field", http.StatusOK, map[string]any{"error": "invalid_grant"}},
		{"missing token", http.StatusOK, map[string]any{"token_type": "bearer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{tokenStatus: tt.status, tokenBody: tt.body}
			srv := api.server(t)
			defer srv.Close()

			rep := &recordingReporter{}
			token, err := newTestClient(srv, rep).AccessToken(context.Background(), testCreds)

			assert.Error(t, err)
			assert.Empty(t, token)
			msg, isErr := rep.last()
			assert.Contains(t, msg, "Error getting access token")
			assert.True(t, isErr)
		})
	}
}

func TestAccessTokenRejectsBlankCredentials(t *testing.T) {
	client := NewClient(Options{}, nil, nil)
	_, err := client.AccessToken(context.Background(), domain.Credentials{ID: "x"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestFetchPostsSuccess(t *testing.T) {
	api := &fakeAPI{
		tokenBody: map[string]any{"access_token": "tok-123"},
		listingBody: listingBody(
			domain.Post{Title: "cat", URL: "https://i.redd.it/x.png", Permalink: "/r/pics/comments/1/cat/"},
			domain.Post{Title: "article", URL: "https://example.com/x.html", Permalink: "/r/pics/comments/2/article/"},
		),
	}
	srv := api.server(t)
	defer srv.Close()

	rep := &recordingReporter{}
	posts, err := newTestClient(srv, rep).FetchPosts(context.Background(), testCreds, Query{
		Feed:       "pics",
		Sort:       domain.SortTop,
		Limit:      500,
		TimeWindow: domain.WindowWeek,
	})

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "cat", posts[0].Title)
	assert.Equal(t, "/r/pics/comments/2/article/", posts[1].Permalink)
	assert.Equal(t, "/r/pics/top.json?limit=100&t=week", api.lastListing.Load())

	msg, isErr := rep.last()
	assert.Equal(t, "Posts fetched successfully", msg)
	assert.False(t, isErr)
}

func TestFetchPostsReturnsEmptyOnListingErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"http error", http.StatusForbidden, map[string]any{"message": "Forbidden"}},
		{"numeric error field", http.StatusOK, map[string]any{"error": 404, "message": "Not Found"}},
		{"string error field", http.StatusOK, map[string]any{"error": "banned"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				tokenBody:     map[string]any{"access_token": "tok-123"},
				listingStatus: tt.status,
				listingBody:   tt.body,
			}
			srv := api.server(t)
			defer srv.Close()

			rep := &recordingReporter{}
			posts, err := newTestClient(srv, rep).FetchPosts(context.Background(), testCreds, Query{Feed: "pics", Limit: 5})

			assert.Error(t, err)
			assert.Empty(t, posts)
			msg, isErr := rep.last()
			assert.Contains(t, msg, "Error fetching posts")
			assert.True(t, isErr)
		})
	}
}

func TestFetchPostsSkipsListingWithoutToken(t *testing.T) {
	api := &fakeAPI{tokenStatus: http.StatusUnauthorized, tokenBody: map[string]any{"error": 401}}
	srv := api.server(t)
	defer srv.Close()

	posts, err := newTestClient(srv, nil).FetchPosts(context.Background(), testCreds, Query{Feed: "pics", Limit: 5})

	assert.ErrorIs(t, err, ErrNoToken)
	assert.Empty(t, posts)
	assert.Equal(t, int32(0), api.listingCalls.Load())
}

func TestListingURL(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"defaults", Query{Feed: "pics", Limit: 0}, "https://oauth.reddit.com/r/pics/best.json?limit=1"},
		{"window ignored unless top", Query{Feed: "pics", Sort: domain.SortNew, Limit: 10, TimeWindow: domain.WindowAll}, "https://oauth.reddit.com/r/pics/new.json?limit=10"},
		{"top with window", Query{Feed: "pics", Sort: domain.SortTop, Limit: 10, TimeWindow: domain.WindowAll}, "https://oauth.reddit.com/r/pics/top.json?limit=10&t=all"},
		{"prefix stripped", Query{Feed: " /r/aww ", Sort: domain.SortHot, Limit: 5}, "https://oauth.reddit.com/r/aww/hot.json?limit=5"},
		{"multi feed", Query{Feed: "pics+aww", Sort: domain.SortHot, Limit: 5}, "https://oauth.reddit.com/r/pics+aww/hot.json?limit=5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListingURL("https://oauth.reddit.com/", tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ListingURL(DefaultAPIURL, Query{Feed: "  "})
	assert.ErrorIs(t, err, ErrMissingFeed)
}

func TestAPIErrorDecoding(t *testing.T) {
	var e apiError
	require.NoError(t, json.Unmarshal([]byte(`{"error":403,"message":"Forbidden"}`), &e))
	assert.EqualError(t, e.err(), "403: Forbidden")

	e = apiError{}
	require.NoError(t, json.Unmarshal([]byte(`{"error":null}`), &e))
	assert.NoError(t, e.err())
}
