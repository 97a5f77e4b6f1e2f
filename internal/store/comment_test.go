package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muralapp/mural-server/internal/domain"
)

func newTestComment(commentID, contentID, authorID, text string) *domain.Comment {
	return &domain.Comment{
		ID:        commentID,
		AuthorID:  authorID,
		ContentID: contentID,
		Text:      text,
		Status:    domain.ModerationPending,
		CreatedAt: time.Now(),
	}
}

func TestCreateComment_IncrementsCounter(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	mustCreateContent(t, store, "post_1", "usr_a")

	require.NoError(t, store.CreateComment(ctx, newTestComment("cmt_1", "post_1", "usr_a", "first")))
	require.NoError(t, store.CreateComment(ctx, newTestComment("cmt_2", "post_1", "usr_a", "second")))

	got, err := store.GetContentByID(ctx, "post_1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentsCount)
}

func TestCreateComment_MissingContentFailsWhole(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")

	err := store.CreateComment(ctx, newTestComment("cmt_1", "post_missing", "usr_a", "orphan"))
	assert.ErrorIs(t, err, ErrContentNotFound)

	// The comment record must not exist either.
	_, err = store.GetCommentByID(ctx, "cmt_1")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteComment_DecrementsCounter(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	mustCreateContent(t, store, "post_1", "usr_a")

	require.NoError(t, store.CreateComment(ctx, newTestComment("cmt_1", "post_1", "usr_a", "bye")))
	require.NoError(t, store.DeleteComment(ctx, "cmt_1"))

	got, err := store.GetContentByID(ctx, "post_1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentsCount)

	// Deleting again is a no-op, counter stays clamped at zero.
	require.NoError(t, store.DeleteComment(ctx, "cmt_1"))
	got, err = store.GetContentByID(ctx, "post_1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentsCount)
}

func TestSetCommentStatus_RejectedHiddenFromList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	mustCreateContent(t, store, "post_1", "usr_a")

	require.NoError(t, store.CreateComment(ctx, newTestComment("cmt_1", "post_1", "usr_a", "fine")))
	require.NoError(t, store.CreateComment(ctx, newTestComment("cmt_2", "post_1", "usr_a", "spam")))

	require.NoError(t, store.SetCommentStatus(ctx, "cmt_2", domain.ModerationRejected))

	result, err := store.ListCommentsByContent(ctx, "post_1", DefaultPaginationParams())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "cmt_1", result.Items[0].ID)
}

func TestListCommentsByContent_OrderAndPagination(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	mustCreateContent(t, store, "post_1", "usr_a")

	base := time.Now()
	for i := 0; i < 5; i++ {
		c := newTestComment(fmt.Sprintf("cmt_%d", i), "post_1", "usr_a", fmt.Sprintf("comment %d", i))
		c.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, store.CreateComment(ctx, c))
	}

	// First page, oldest first.
	page1, err := store.ListCommentsByContent(ctx, "post_1", PaginationParams{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1.Items, 3)
	assert.Equal(t, "cmt_0", page1.Items[0].ID)
	assert.Equal(t, "cmt_2", page1.Items[2].ID)
	assert.True(t, page1.HasMore)
	require.NotEmpty(t, page1.NextCursor)

	// Second page continues where the first left off.
	page2, err := store.ListCommentsByContent(ctx, "post_1", PaginationParams{Limit: 3, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.Equal(t, "cmt_3", page2.Items[0].ID)
	assert.Equal(t, "cmt_4", page2.Items[1].ID)
	assert.False(t, page2.HasMore)
}
