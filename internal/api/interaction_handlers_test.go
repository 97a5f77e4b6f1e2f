package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createTestPost(t *testing.T, token string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/content",
		map[string]any{
			"type":  "post",
			"title": "Fresh paint",
			"body":  "New piece on the east wall",
		},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	return envelope.Data.ID
}

func TestToggleRelation_LikeMovesCounter(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	contentID := ts.createTestPost(t, "usr_a")

	resp := ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "like",
			"subject_type": "post",
			"subject_id":   contentID,
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ToggleRelationResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Data.Active)
	assert.Equal(t, 1, envelope.Data.Count)

	// Second toggle removes the like.
	resp = ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "like",
			"subject_type": "post",
			"subject_id":   contentID,
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope = decodeEnvelope[ToggleRelationResponse](t, resp.Body.Bytes())
	assert.False(t, envelope.Data.Active)
	assert.Equal(t, 0, envelope.Data.Count)
}

func TestToggleRelation_SelfFollowRejected(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")

	resp := ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "follow",
			"subject_type": "user",
			"subject_id":   "usr_a",
		},
		"Authorization: Bearer usr_a")
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "SELF_REFERENCE", envelope.Code)
}

func TestRelationStatus_ReportsActive(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	contentID := ts.createTestPost(t, "usr_a")

	resp := ts.api.Get("/api/v1/relations/status?kind=bookmark&subject_type=post&subject_id="+contentID,
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[RelationStatusResponse](t, resp.Body.Bytes())
	assert.False(t, envelope.Data.Active)

	resp = ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "bookmark",
			"subject_type": "post",
			"subject_id":   contentID,
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/relations/status?kind=bookmark&subject_type=post&subject_id="+contentID,
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope = decodeEnvelope[RelationStatusResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Data.Active)
}

func TestComments_CreateListDelete(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	contentID := ts.createTestPost(t, "usr_a")

	resp := ts.api.Post("/api/v1/content/"+contentID+"/comments",
		map[string]any{"text": "Love the colors"},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[CommentResponse](t, resp.Body.Bytes())
	commentID := envelope.Data.ID
	assert.Equal(t, "usr_b", envelope.Data.AuthorID)

	resp = ts.api.Get("/api/v1/content/"+contentID+"/comments", "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)

	page := decodeEnvelope[PageResponse[CommentResponse]](t, resp.Body.Bytes())
	require.Len(t, page.Data.Items, 1)
	assert.Equal(t, "Love the colors", page.Data.Items[0].Text)

	// Alice cannot delete Bob's comment.
	resp = ts.api.Delete("/api/v1/comments/"+commentID, "Authorization: Bearer usr_a")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/comments/"+commentID, "Authorization: Bearer usr_b")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/content/"+contentID+"/comments", "Authorization: Bearer usr_a")
	page = decodeEnvelope[PageResponse[CommentResponse]](t, resp.Body.Bytes())
	assert.Empty(t, page.Data.Items)
}

func TestBookmarks_ListReturnsSavedContent(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	contentID := ts.createTestPost(t, "usr_a")

	resp := ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "bookmark",
			"subject_type": "post",
			"subject_id":   contentID,
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/bookmarks", "Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, contentID, envelope.Data.Items[0].ID)

	// Bookmarks are private to the caller.
	resp = ts.api.Get("/api/v1/bookmarks", "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	envelope = decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	assert.Empty(t, envelope.Data.Items)
}
