package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steptzi/api/internal/core/domain"
)

func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	resp.Body.Close()
	return v
}

// TestTagCRUD covers the tag lifecycle and the admin gate on mutations.
func TestTagCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, userToken := app.createUser(t, false)
	_, adminToken := app.createUser(t, true)

	// Non-admin can't create tags.
	resp := app.doJSON(t, http.MethodPost, "/api/tags", userToken, map[string]string{"title": "Go"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Anonymous can't either.
	resp = app.doJSON(t, http.MethodPost, "/api/tags", "", map[string]string{"title": "Go"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodPost, "/api/tags", adminToken, map[string]string{
		"title":   "Go Programming",
		"excerpt": "All things Go",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tag := decodeBody[domain.Tag](t, resp)
	assert.Equal(t, "Go Programming", tag.Title)
	assert.Contains(t, tag.Slug, "go-programming")

	// Reads are public.
	resp = app.doJSON(t, http.MethodGet, "/api/tags/"+tag.Slug, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeBody[domain.Tag](t, resp)
	assert.Equal(t, tag.ID, fetched.ID)

	resp = app.doJSON(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tags := decodeBody[[]domain.Tag](t, resp)
	assert.Len(t, tags, 1)

	// Changing the title regenerates the slug.
	resp = app.doJSON(t, http.MethodPut, "/api/tags/"+tag.Slug, adminToken, map[string]string{
		"title": "Golang",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[domain.Tag](t, resp)
	assert.Equal(t, "Golang", updated.Title)
	assert.NotEqual(t, tag.Slug, updated.Slug)
	assert.Contains(t, updated.Slug, "golang")

	resp = app.doJSON(t, http.MethodDelete, "/api/tags/"+updated.Slug, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodGet, "/api/tags/"+updated.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// TestPostFlow tests the post lifecycle: create with tags, read, update,
// ownership checks, comments, delete.
func TestPostFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	author, authorToken := app.createUser(t, false)
	_, otherToken := app.createUser(t, false)
	_, adminToken := app.createUser(t, true)

	resp := app.doJSON(t, http.MethodPost, "/api/tags", adminToken, map[string]string{"title": "News"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tag := decodeBody[domain.Tag](t, resp)

	// Step 1: create a post with the tag attached.
	resp = app.doJSON(t, http.MethodPost, "/api/posts", authorToken, map[string]any{
		"title":        "Hello World",
		"content":      "First post content",
		"is_published": true,
		"tags":         []uuid.UUID{tag.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decodeBody[domain.Post](t, resp)
	assert.Equal(t, "Hello World", post.Title)
	assert.Contains(t, post.Slug, "hello-world")
	assert.Equal(t, author.ID, post.AuthorID)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, tag.ID, post.Tags[0].ID)
	require.NotNil(t, post.Author)
	assert.Equal(t, author.Username, post.Author.Username)

	// Step 2: anyone can read it.
	resp = app.doJSON(t, http.MethodGet, "/api/posts/"+post.Slug, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Step 3: another user can't touch it, the author can.
	resp = app.doJSON(t, http.MethodPut, "/api/posts/"+post.Slug, otherToken, map[string]string{
		"content": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodPut, "/api/posts/"+post.Slug, authorToken, map[string]string{
		"content": "Edited content",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edited := decodeBody[domain.Post](t, resp)
	assert.Equal(t, "Edited content", edited.Content)
	assert.Equal(t, post.Slug, edited.Slug)

	// Renaming regenerates the slug; the post moves to the new address.
	resp = app.doJSON(t, http.MethodPut, "/api/posts/"+post.Slug, authorToken, map[string]string{
		"title": "Hello Again",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	renamed := decodeBody[domain.Post](t, resp)
	assert.NotEqual(t, post.Slug, renamed.Slug)
	assert.Contains(t, renamed.Slug, "hello-again")

	resp = app.doJSON(t, http.MethodGet, "/api/posts/"+post.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	post.Slug = renamed.Slug

	// Step 4: comments.
	resp = app.doJSON(t, http.MethodPost, "/api/posts/"+post.Slug+"/comments", otherToken, map[string]string{
		"content": "Nice post",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := decodeBody[domain.Comment](t, resp)
	assert.Equal(t, "Nice post", comment.Content)

	resp = app.doJSON(t, http.MethodGet, "/api/posts/"+post.Slug+"/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decodeBody[[]domain.Comment](t, resp)
	assert.Len(t, comments, 1)

	// The post author can't delete someone else's comment, an admin can.
	resp = app.doJSON(t, http.MethodDelete, "/api/comments/"+comment.ID.String(), authorToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodDelete, "/api/comments/"+comment.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Step 5: delete the post; other users forbidden, admin allowed.
	resp = app.doJSON(t, http.MethodDelete, "/api/posts/"+post.Slug, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodDelete, "/api/posts/"+post.Slug, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodGet, "/api/posts/"+post.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreatePostWithUnknownTag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := app.createUser(t, false)

	resp := app.doJSON(t, http.MethodPost, "/api/posts", token, map[string]any{
		"title":   "Dangling Tag",
		"content": "body",
		"tags":    []uuid.UUID{uuid.New()},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The failed insert rolled back; the post does not exist.
	resp = app.doJSON(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]domain.Post](t, resp))
}

func TestCommentOnMissingPost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := app.createUser(t, false)

	resp := app.doJSON(t, http.MethodPost, "/api/posts/no-such-post/comments", token, map[string]string{
		"content": "hello?",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
