package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNotifications_AfterLikeAndFollow(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	contentID := ts.createTestPost(t, "usr_a")

	// Bob follows Alice and likes her post.
	resp := ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "follow",
			"subject_type": "user",
			"subject_id":   "usr_a",
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "like",
			"subject_type": "post",
			"subject_id":   contentID,
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notifications", "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	page := decodeEnvelope[PageResponse[NotificationResponse]](t, resp.Body.Bytes())
	require.Len(t, page.Data.Items, 2)

	// Newest first: the like came after the follow.
	assert.Equal(t, "like", page.Data.Items[0].Kind)
	assert.Equal(t, "follow", page.Data.Items[1].Kind)
	for _, n := range page.Data.Items {
		assert.Equal(t, "usr_b", n.ActorID)
		assert.Equal(t, "User bob", n.Actor.DisplayName)
		assert.False(t, n.Read)
	}

	// Bob triggered them; he receives none.
	resp = ts.api.Get("/api/v1/notifications", "Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)
	page = decodeEnvelope[PageResponse[NotificationResponse]](t, resp.Body.Bytes())
	assert.Empty(t, page.Data.Items)
}

func TestMarkNotificationRead(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")

	resp := ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "follow",
			"subject_type": "user",
			"subject_id":   "usr_a",
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notifications", "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[PageResponse[NotificationResponse]](t, resp.Body.Bytes())
	require.Len(t, page.Data.Items, 1)
	notifID := page.Data.Items[0].ID

	resp = ts.api.Post("/api/v1/notifications/"+notifID+"/read",
		map[string]any{},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/notifications", "Authorization: Bearer usr_a")
	page = decodeEnvelope[PageResponse[NotificationResponse]](t, resp.Body.Bytes())
	require.Len(t, page.Data.Items, 1)
	assert.True(t, page.Data.Items[0].Read)
}

func TestMarkNotificationRead_OtherUsersHidden(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")

	resp := ts.api.Post("/api/v1/relations/toggle",
		map[string]any{
			"kind":         "follow",
			"subject_type": "user",
			"subject_id":   "usr_a",
		},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notifications", "Authorization: Bearer usr_a")
	page := decodeEnvelope[PageResponse[NotificationResponse]](t, resp.Body.Bytes())
	require.Len(t, page.Data.Items, 1)
	notifID := page.Data.Items[0].ID

	// Bob cannot mark Alice's notification; the ID reads as missing.
	resp = ts.api.Post("/api/v1/notifications/"+notifID+"/read",
		map[string]any{},
		"Authorization: Bearer usr_b")
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}
