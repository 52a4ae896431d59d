package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClientWithBaseURL(srv.Client(), srv.URL)
	require.NoError(t, err)
	return client, mux
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	c, err := NewClient("ghp_test")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestClient_FindToolComment_Paginates(t *testing.T) {
	client, mux := newTestServer(t)

	mux.HandleFunc("/repos/apache/datafusion/issues/12/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprintf(w, `[{"id": 30, "body": "%s\nnew"}]`, GH_COMMENT_MARKER)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
		fmt.Fprintf(w, `[{"id": 10, "body": "lgtm"}, {"id": 20, "body": "%s\nold", "user": {"login": "github-actions[bot]"}}]`, GH_COMMENT_MARKER)
	})

	comments, err := client.GetComments(context.Background(), "apache/datafusion", 12)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
	assert.Equal(t, "github-actions[bot]", comments[1].User)

	found, err := client.FindToolComment(context.Background(), "apache/datafusion", 12)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(30), found.ID)
}

func TestClient_CreateAndUpdateComment(t *testing.T) {
	client, mux := newTestServer(t)

	var createdBody, updatedBody string
	mux.HandleFunc("/repos/apache/datafusion/issues/12/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		createdBody = payload["body"]
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 5, "body": "created"}`)
	})
	mux.HandleFunc("/repos/apache/datafusion/issues/comments/5", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		updatedBody = payload["body"]
		fmt.Fprint(w, `{"id": 5, "body": "updated"}`)
	})

	created, err := client.CreateComment(context.Background(), "apache/datafusion", 12, "first")
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, "first", createdBody)

	require.NoError(t, client.UpdateComment(context.Background(), "apache/datafusion", 5, "second"))
	assert.Equal(t, "second", updatedBody)
}

func TestClient_GetPR(t *testing.T) {
	client, mux := newTestServer(t)
	mux.HandleFunc("/repos/apache/datafusion/pulls/12", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": 12, "title": "Remove DataFrame::foo", "base": {"ref": "main", "sha": "aaa"}, "head": {"ref": "feature", "sha": "bbb"}}`)
	})

	pr, err := client.GetPR(context.Background(), "apache/datafusion", 12)
	require.NoError(t, err)
	assert.Equal(t, "Remove DataFrame::foo", pr.Title)
	assert.Equal(t, "main", pr.BaseRef)
	assert.Equal(t, "bbb", pr.HeadSHA)
}
