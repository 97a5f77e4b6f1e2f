package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muralapp/mural-server/internal/domain"
)

func TestGetOrCreateDirectConversation_FirstContact(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	conv, created, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.DirectConversationID("usr_a", "usr_b"), conv.ID)
	assert.Equal(t, domain.ConversationDirect, conv.Type)
	assert.ElementsMatch(t, []string{"usr_a", "usr_b"}, conv.Participants)
	assert.Equal(t, 0, conv.UnreadFor("usr_a"))
	assert.Equal(t, 0, conv.UnreadFor("usr_b"))
}

func TestGetOrCreateDirectConversation_SecondCallReturnsSame(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first, created, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)
	assert.True(t, created)

	// Reversed argument order still resolves the same thread.
	second, created, err := store.GetOrCreateDirectConversation(ctx, "usr_b", "usr_a", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateDirectConversation_ConcurrentFirstContact(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	const n = 10
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(flip bool) {
			defer wg.Done()
			a, b := "usr_a", "usr_b"
			if flip {
				a, b = b, a
			}
			conv, _, err := store.GetOrCreateDirectConversation(ctx, a, b, nil)
			if err == nil {
				ids <- conv.ID
			}
		}(i%2 == 0)
	}
	wg.Wait()
	close(ids)

	// Every racer must land on the same conversation.
	var got []string
	for convID := range ids {
		got = append(got, convID)
	}
	require.Len(t, got, n)
	for _, convID := range got {
		assert.Equal(t, got[0], convID)
	}

	// Both participants see exactly one thread.
	convs, err := store.ListConversationsForUser(ctx, "usr_a")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestCreateGroupConversation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	conv, err := store.CreateGroupConversation(ctx, "usr_a",
		[]string{"usr_a", "usr_b", "usr_c"},
		domain.GroupMeta{Name: "sketch club"}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ConversationGroup, conv.Type)
	require.NotNil(t, conv.Group)
	assert.Equal(t, "sketch club", conv.Group.Name)
	assert.Equal(t, "usr_a", conv.Group.CreatorID)

	// All three participants can list it.
	for _, userID := range []string{"usr_a", "usr_b", "usr_c"} {
		convs, err := store.ListConversationsForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, convs, 1)
		assert.Equal(t, conv.ID, convs[0].ID)
	}
}

func TestListConversationsForUser_MostRecentFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	older, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_b", nil)
	require.NoError(t, err)
	newer, _, err := store.GetOrCreateDirectConversation(ctx, "usr_a", "usr_c", nil)
	require.NoError(t, err)

	// A message in the older thread bumps it to the top.
	_, err = store.AppendMessage(ctx, older.ID, "usr_b", "hello again", "")
	require.NoError(t, err)

	convs, err := store.ListConversationsForUser(ctx, "usr_a")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, older.ID, convs[0].ID)
	assert.Equal(t, newer.ID, convs[1].ID)
}
