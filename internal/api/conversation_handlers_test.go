package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirect_SameThreadBothDirections(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")

	resp := ts.api.Post("/api/v1/conversations/direct",
		map[string]any{"user_id": "usr_b"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	first := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())
	assert.Equal(t, "direct", first.Data.Type)
	assert.ElementsMatch(t, []string{"usr_a", "usr_b"}, first.Data.Participants)

	// Bob resolving the thread with Alice lands on the same conversation.
	resp = ts.api.Post("/api/v1/conversations/direct",
		map[string]any{"user_id": "usr_a"},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	second := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())
	assert.Equal(t, first.Data.ID, second.Data.ID)
}

func TestEnsureDirect_SelfRejected(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")

	resp := ts.api.Post("/api/v1/conversations/direct",
		map[string]any{"user_id": "usr_a"},
		"Authorization: Bearer usr_a")
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestSendMessage_UpdatesPreviewAndUnread(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")

	resp := ts.api.Post("/api/v1/conversations/direct",
		map[string]any{"user_id": "usr_b"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	conv := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/conversations/"+conv.Data.ID+"/messages",
		map[string]any{"text": "hey bob"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	msg := decodeEnvelope[MessageResponseDTO](t, resp.Body.Bytes())
	assert.Equal(t, "usr_a", msg.Data.SenderID)
	assert.Equal(t, "hey bob", msg.Data.Text)

	// Bob sees the preview and an unread count of one; the sender sees zero.
	resp = ts.api.Get("/api/v1/conversations/"+conv.Data.ID, "Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)
	bobView := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())
	require.NotNil(t, bobView.Data.LastMessage)
	assert.Equal(t, "hey bob", bobView.Data.LastMessage.Text)
	assert.Equal(t, 1, bobView.Data.Unread)

	resp = ts.api.Get("/api/v1/conversations/"+conv.Data.ID, "Authorization: Bearer usr_a")
	aliceView := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())
	assert.Equal(t, 0, aliceView.Data.Unread)

	// Marking read resets Bob's counter.
	resp = ts.api.Post("/api/v1/conversations/"+conv.Data.ID+"/read",
		map[string]any{},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)
	marked := decodeEnvelope[MarkReadResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, marked.Data.Marked)

	resp = ts.api.Get("/api/v1/conversations/"+conv.Data.ID, "Authorization: Bearer usr_b")
	bobView = decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())
	assert.Equal(t, 0, bobView.Data.Unread)
}

func TestSendMessage_NonParticipantForbidden(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	ts.createTestProfile(t, "usr_c", "carol")

	resp := ts.api.Post("/api/v1/conversations/direct",
		map[string]any{"user_id": "usr_b"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	conv := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/conversations/"+conv.Data.ID+"/messages",
		map[string]any{"text": "let me in"},
		"Authorization: Bearer usr_c")
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/conversations/"+conv.Data.ID+"/messages", "Authorization: Bearer usr_c")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestCreateGroup_ListsForAllParticipants(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	ts.createTestProfile(t, "usr_c", "carol")

	resp := ts.api.Post("/api/v1/conversations/group",
		map[string]any{
			"name":         "wall crew",
			"participants": []string{"usr_b", "usr_c"},
		},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	group := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())
	assert.Equal(t, "group", group.Data.Type)
	require.NotNil(t, group.Data.Group)
	assert.Equal(t, "wall crew", group.Data.Group.Name)
	assert.Equal(t, "usr_a", group.Data.Group.CreatorID)
	assert.Len(t, group.Data.Participants, 3)

	for _, userID := range []string{"usr_a", "usr_b", "usr_c"} {
		resp = ts.api.Get("/api/v1/conversations", "Authorization: Bearer "+userID)
		require.Equal(t, http.StatusOK, resp.Code)

		list := decodeEnvelope[ConversationListResponse](t, resp.Body.Bytes())
		require.Len(t, list.Data.Conversations, 1, "user %s should see the group", userID)
		assert.Equal(t, group.Data.ID, list.Data.Conversations[0].ID)
	}
}

func TestListMessages_ChronologicalOrder(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")

	resp := ts.api.Post("/api/v1/conversations/direct",
		map[string]any{"user_id": "usr_b"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	conv := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/conversations/"+conv.Data.ID+"/messages",
		map[string]any{"text": "hi"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/conversations/"+conv.Data.ID+"/messages",
		map[string]any{"text": "hey"},
		"Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/conversations/"+conv.Data.ID+"/messages", "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)

	page := decodeEnvelope[PageResponse[MessageResponseDTO]](t, resp.Body.Bytes())
	require.Len(t, page.Data.Items, 2)
	assert.Equal(t, "hi", page.Data.Items[0].Text)
	assert.Equal(t, "hey", page.Data.Items[1].Text)
}

func TestDeleteMessage_BlanksTextInListing(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")

	resp := ts.api.Post("/api/v1/conversations/direct",
		map[string]any{"user_id": "usr_b"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	conv := decodeEnvelope[ConversationResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/conversations/"+conv.Data.ID+"/messages",
		map[string]any{"text": "regrettable"},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	msg := decodeEnvelope[MessageResponseDTO](t, resp.Body.Bytes())

	// Only the sender may delete.
	resp = ts.api.Delete("/api/v1/messages/"+msg.Data.ID, "Authorization: Bearer usr_b")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/messages/"+msg.Data.ID, "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/conversations/"+conv.Data.ID+"/messages", "Authorization: Bearer usr_b")
	require.Equal(t, http.StatusOK, resp.Code)

	page := decodeEnvelope[PageResponse[MessageResponseDTO]](t, resp.Body.Bytes())
	require.Len(t, page.Data.Items, 1)
	assert.True(t, page.Data.Items[0].Deleted)
	assert.Empty(t, page.Data.Items[0].Text)
}
