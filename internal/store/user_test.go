package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muralapp/mural-server/internal/domain"
)

func TestCreateUser_DuplicateHandle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	mustCreateUser(t, store, "usr_a", "alice")

	u := mustCreateUser(t, store, "usr_b", "bob")
	u.Handle = "alice"
	err := store.UpdateUser(context.Background(), u)
	assert.ErrorIs(t, err, ErrHandleTaken)
}

func TestGetUserByHandle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")

	got, err := store.GetUserByHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "usr_a", got.ID)

	_, err = store.GetUserByHandle(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_PreservesCounters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	mustCreateUser(t, store, "usr_b", "bob")

	_, err := store.ToggleRelation(ctx, "usr_b",
		domain.SubjectRef{Type: domain.SubjectUser, ID: "usr_a"}, domain.RelationFollow)
	require.NoError(t, err)

	// A profile edit with a stale zero counter must not clobber it.
	u, err := store.GetUserByID(ctx, "usr_a")
	require.NoError(t, err)
	u.Bio = "painter"
	u.FollowersCount = 0
	require.NoError(t, store.UpdateUser(ctx, u))

	got, err := store.GetUserByID(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, "painter", got.Bio)
	assert.Equal(t, 1, got.FollowersCount)
}

func TestGetProfileSnapshot_PlaceholderForMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	snap := store.GetProfileSnapshot(context.Background(), "usr_ghost")
	assert.NotEmpty(t, snap.DisplayName)
}

func TestUpdateUser_HandleMove(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	u := mustCreateUser(t, store, "usr_a", "alice")

	u.Handle = "alicia"
	require.NoError(t, store.UpdateUser(ctx, u))

	got, err := store.GetUserByHandle(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "usr_a", got.ID)

	// Old handle is released.
	_, err = store.GetUserByHandle(ctx, "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
