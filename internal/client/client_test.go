package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthi209/notkarthik/internal/models"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListPostsSendsFilters(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blogs", r.URL.Path)
		assert.Equal(t, "tech", r.URL.Query().Get("category"))
		assert.Equal(t, "asc", r.URL.Query().Get("order"))
		assert.False(t, r.URL.Query().Has("sortBy"))
		writeJSON(w, http.StatusOK, []models.Post{{ID: 1, Title: "a", Category: "tech"}})
	})

	posts, err := c.ListPosts(context.Background(), PostQuery{Category: "tech", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].Title)
}

func TestCreatePostSendsKeyAndUnwraps(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/blogs/create", r.URL.Path)
		assert.Equal(t, "k1", r.Header.Get("x-api-key"))

		var in PostInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, []string{"go"}, in.Tags)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Blog created successfully",
			"blog":    models.Post{ID: 9, Title: in.Title},
		})
	})

	post, err := c.CreatePost(context.Background(), "k1", PostInput{Title: "T", Content: "c", Category: "tech", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, int64(9), post.ID)
}

func TestErrorsCarryStatusAndMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"error": "Unauthorized", "code": 401, "message": "Invalid API key"})
	})

	_, err := c.ReplaceFeaturedTweets(context.Background(), "bad", []string{"u"})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestListLogsPath(t *testing.T) {
	var paths []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, []models.LogEntry{{ID: 1, Title: "Dune", Type: models.KindBooks, Rating: "5"}})
	})

	entries, err := c.ListLogs(context.Background(), models.KindBooks)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.Rating("5"), entries[0].Rating)

	_, err = c.ListLogs(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/logs/books", "/api/logs"}, paths)
}

func TestFeaturedTweetsRoundTrip(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []models.FeaturedTweet{{Position: 1, URL: "a"}})
		case http.MethodPut:
			var body struct {
				URLs []string `json:"urls"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "count": len(body.URLs)})
		}
	})

	n, err := c.ReplaceFeaturedTweets(context.Background(), "k", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tweets, err := c.FeaturedTweets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", tweets[0].URL)
}

func TestIssueAndRevokeKeys(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			writeJSON(w, http.StatusCreated, map[string]interface{}{"api_key": "secret", "id": 4, "name": "ci"})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/admin/api-keys/4":
			writeJSON(w, http.StatusOK, map[string]string{"message": "API key deleted successfully"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "API key not found"})
		}
	})

	issued, err := c.IssueAPIKey(context.Background(), "", "ci")
	require.NoError(t, err)
	assert.Equal(t, "secret", issued.APIKey)

	require.NoError(t, c.RevokeAPIKey(context.Background(), "secret", 4))
	err = c.RevokeAPIKey(context.Background(), "secret", 5)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}
