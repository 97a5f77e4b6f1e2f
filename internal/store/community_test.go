package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muralapp/mural-server/internal/domain"
)

func mustCreateCommunity(t *testing.T, s *Store, id, slug string) *domain.Community {
	t.Helper()

	now := time.Now()
	c := &domain.Community{
		ID:        id,
		Slug:      slug,
		Name:      slug,
		OwnerID:   "usr_owner",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateCommunity(context.Background(), c))
	return c
}

func TestCreateCommunity_DuplicateSlug(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	mustCreateCommunity(t, store, "com_1", "ink-wash")

	err := store.CreateCommunity(context.Background(), &domain.Community{
		ID:   "com_2",
		Slug: "ink-wash",
		Name: "Ink Wash",
	})
	assert.ErrorIs(t, err, ErrCommunityExists)
}

func TestGetCommunityBySlug(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	created := mustCreateCommunity(t, store, "com_1", "ink-wash")

	got, err := store.GetCommunityBySlug(context.Background(), "ink-wash")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.GetCommunityBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestJoinLeaveCommunity_CounterPairing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateCommunity(t, store, "com_1", "ink-wash")

	require.NoError(t, store.JoinCommunity(ctx, "usr_a", "com_1"))
	require.NoError(t, store.JoinCommunity(ctx, "usr_b", "com_1"))

	// Joining twice is a no-op.
	require.NoError(t, store.JoinCommunity(ctx, "usr_a", "com_1"))

	got, err := store.GetCommunityByID(ctx, "com_1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.MembersCount)

	member, err := store.IsMember(ctx, "usr_a", "com_1")
	require.NoError(t, err)
	assert.True(t, member)

	require.NoError(t, store.LeaveCommunity(ctx, "usr_a", "com_1"))
	// Leaving twice is a no-op.
	require.NoError(t, store.LeaveCommunity(ctx, "usr_a", "com_1"))

	got, err = store.GetCommunityByID(ctx, "com_1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.MembersCount)

	members, err := store.ListCommunityMemberIDs(ctx, "com_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"usr_b"}, members)
}

func TestListCommunities_SortedByMembers(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateCommunity(t, store, "com_small", "aquarelle")
	mustCreateCommunity(t, store, "com_big", "oil-paint")

	require.NoError(t, store.JoinCommunity(ctx, "usr_a", "com_big"))
	require.NoError(t, store.JoinCommunity(ctx, "usr_b", "com_big"))
	require.NoError(t, store.JoinCommunity(ctx, "usr_a", "com_small"))

	communities, err := store.ListCommunities(ctx)
	require.NoError(t, err)
	require.Len(t, communities, 2)
	assert.Equal(t, "com_big", communities[0].ID)
	assert.Equal(t, "com_small", communities[1].ID)
}
