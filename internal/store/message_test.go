package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMessage_UpdatesPreviewAndUnread(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	msg, err := store.AppendMessage(ctx, conv.ID, "usr_a", "hey", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"usr_a"}, msg.ReadBy)

	got, err := store.GetConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, msg.ID, got.LastMessage.MessageID)
	assert.Equal(t, "hey", got.LastMessage.Text)

	// Recipient's counter moves, sender's never does.
	assert.Equal(t, 1, got.UnreadFor("usr_b"))
	assert.Equal(t, 0, got.UnreadFor("usr_a"))
}

func TestAppendMessage_NonParticipantRejected(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	_, err = store.AppendMessage(ctx, conv.ID, "usr_intruder", "let me in", "")
	assert.ErrorIs(t, err, ErrNotParticipant)

	// Nothing changed on the conversation.
	got, err := store.GetConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastMessage)
}

func TestAppendMessage_MissingConversation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.AppendMessage(context.Background(), "conv_missing", "usr_a", "hello?", "")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestAppendMessage_StrictlyMonotonicTimestamps(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	const n = 50
	prev, err := store.AppendMessage(ctx, conv.ID, "usr_a", "m0", "")
	require.NoError(t, err)
	for i := 1; i < n; i++ {
		msg, err := store.AppendMessage(ctx, conv.ID, "usr_a", fmt.Sprintf("m%d", i), "")
		require.NoError(t, err)
		assert.True(t, msg.SentAt.After(prev.SentAt), "message %d must sort after its predecessor", i)
		prev = msg
	}
}

func TestAppendMessage_ConcurrentSendersAllCounted(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.AppendMessage(ctx, conv.ID, "usr_a", fmt.Sprintf("burst %d", i), ""); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.GetConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.UnreadFor("usr_b"))

	// Every append made it into the index.
	result, err := store.ListMessages(ctx, conv.ID, PaginationParams{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, result.Items, n)
}

func TestMarkConversationRead(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.AppendMessage(ctx, conv.ID, "usr_a", fmt.Sprintf("msg %d", i), "")
		require.NoError(t, err)
	}

	marked, err := store.MarkConversationRead(ctx, conv.ID, "usr_b")
	require.NoError(t, err)
	assert.Equal(t, 3, marked)

	got, err := store.GetConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadFor("usr_b"))

	// Second call is a no-op.
	marked, err = store.MarkConversationRead(ctx, conv.ID, "usr_b")
	require.NoError(t, err)
	assert.Equal(t, 0, marked)

	// The messages carry the reader now.
	result, err := store.ListMessages(ctx, conv.ID, DefaultPaginationParams())
	require.NoError(t, err)
	for _, m := range result.Items {
		assert.True(t, m.ReadByUser("usr_b"))
	}
}

func TestMarkConversationRead_NonParticipantRejected(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	_, err = store.MarkConversationRead(ctx, conv.ID, "usr_intruder")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestDeleteMessage_BlanksPreview(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	msg, err := store.AppendMessage(ctx, conv.ID, "usr_a", "regret this", "")
	require.NoError(t, err)

	require.NoError(t, store.DeleteMessage(ctx, msg.ID))

	got, err := store.GetConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessage)
	assert.Empty(t, got.LastMessage.Text)

	stored, err := store.GetMessageByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.Deleted)
}

func TestListMessages_AscendingWithinPages(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := store.AppendMessage(ctx, conv.ID, "usr_a", fmt.Sprintf("msg %d", i), "")
		require.NoError(t, err)
	}

	// First page holds the newest messages, oldest of them first.
	page1, err := store.ListMessages(ctx, conv.ID, PaginationParams{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1.Items, 3)
	assert.Equal(t, "msg 2", page1.Items[0].Text)
	assert.Equal(t, "msg 4", page1.Items[2].Text)
	assert.True(t, page1.HasMore)

	page2, err := store.ListMessages(ctx, conv.ID, PaginationParams{Limit: 3, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.Equal(t, "msg 0", page2.Items[0].Text)
	assert.Equal(t, "msg 1", page2.Items[1].Text)
	assert.False(t, page2.HasMore)
}

func TestListMessages_SinglePageChronological(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	conv, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)

	_, err = store.AppendMessage(ctx, conv.ID, "usr_a", "hi", "")
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, conv.ID, "usr_b", "hey", "")
	require.NoError(t, err)

	page, err := store.ListMessages(ctx, conv.ID, PaginationParams{Limit: 50})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "hi", page.Items[0].Text)
	assert.Equal(t, "hey", page.Items[1].Text)
	assert.True(t, page.Items[0].SentAt.Before(page.Items[1].SentAt))
}
