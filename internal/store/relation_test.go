package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
)

func TestToggleRelation_FollowOnOff(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	mustCreateUser(t, store, "usr_b", "bob")

	subject := domain.SubjectRef{Type: domain.SubjectUser, ID: "usr_b"}

	// Toggle on.
	res, err := store.ToggleRelation(ctx, "usr_a", subject, domain.RelationFollow)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, 1, res.Count)

	b, err := store.GetUserByID(ctx, "usr_b")
	require.NoError(t, err)
	assert.Equal(t, 1, b.FollowersCount)

	a, err := store.GetUserByID(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.FollowingCount)

	// Toggle off.
	res, err = store.ToggleRelation(ctx, "usr_a", subject, domain.RelationFollow)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, 0, res.Count)

	b, err = store.GetUserByID(ctx, "usr_b")
	require.NoError(t, err)
	assert.Equal(t, 0, b.FollowersCount)

	a, err = store.GetUserByID(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 0, a.FollowingCount)
}

func TestToggleRelation_Like(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	content := mustCreateContent(t, store, "post_1", "usr_a")

	res, err := store.ToggleRelation(ctx, "usr_a", content.SubjectRef(), domain.RelationLike)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, 1, res.Count)

	got, err := store.GetContentByID(ctx, "post_1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)

	res, err = store.ToggleRelation(ctx, "usr_a", content.SubjectRef(), domain.RelationLike)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, 0, res.Count)
}

func TestToggleRelation_BookmarkHasNoCounter(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	content := mustCreateContent(t, store, "post_1", "usr_a")

	res, err := store.ToggleRelation(ctx, "usr_a", content.SubjectRef(), domain.RelationBookmark)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, -1, res.Count)

	got, err := store.GetContentByID(ctx, "post_1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)

	exists, err := store.HasRelation(ctx, "usr_a", content.SubjectRef(), domain.RelationBookmark)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestToggleRelation_MissingSubject(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")

	subject := domain.SubjectRef{Type: domain.SubjectUser, ID: "usr_missing"}
	_, err := store.ToggleRelation(ctx, "usr_a", subject, domain.RelationFollow)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Nothing was written: the edge must not exist.
	exists, err := store.HasRelation(ctx, "usr_a", subject, domain.RelationFollow)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestToggleRelation_ConcurrentDistinctActors(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_target", "target")

	const n = 20
	actors := make([]string, n)
	for i := range actors {
		actors[i] = fmt.Sprintf("usr_f%02d", i)
		mustCreateUser(t, store, actors[i], fmt.Sprintf("f%02d", i))
	}

	subject := domain.SubjectRef{Type: domain.SubjectUser, ID: "usr_target"}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, actor := range actors {
		wg.Add(1)
		go func(actorID string) {
			defer wg.Done()
			if _, err := store.ToggleRelation(ctx, actorID, subject, domain.RelationFollow); err != nil {
				errs <- err
			}
		}(actor)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// Counter must equal the number of edges exactly.
	target, err := store.GetUserByID(ctx, "usr_target")
	require.NoError(t, err)
	assert.Equal(t, n, target.FollowersCount)

	followers, err := store.ListRelationActorIDs(ctx, domain.RelationFollow, subject)
	require.NoError(t, err)
	assert.Len(t, followers, n)
}

func TestToggleRelation_ConcurrentSameActor(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	mustCreateUser(t, store, "usr_target", "target")

	subject := domain.SubjectRef{Type: domain.SubjectUser, ID: "usr_target"}

	// The same actor racing against itself forces transaction conflicts
	// on a single edge. Whatever interleaving wins, the counter must
	// land on exactly 1 if the edge exists and 0 if it does not.
	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ToggleRelation(ctx, "usr_a", subject, domain.RelationFollow); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	exists, err := store.HasRelation(ctx, "usr_a", subject, domain.RelationFollow)
	require.NoError(t, err)

	target, err := store.GetUserByID(ctx, "usr_target")
	require.NoError(t, err)
	if exists {
		assert.Equal(t, 1, target.FollowersCount)
	} else {
		assert.Equal(t, 0, target.FollowersCount)
	}
}

func TestToggleRelation_RepeatedTogglesLandConsistent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	content := mustCreateContent(t, store, "post_1", "usr_a")

	// An even number of sequential toggles always lands back at zero.
	for i := 0; i < 6; i++ {
		_, err := store.ToggleRelation(ctx, "usr_a", content.SubjectRef(), domain.RelationLike)
		require.NoError(t, err)
	}

	got, err := store.GetContentByID(ctx, "post_1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)

	exists, err := store.HasRelation(ctx, "usr_a", content.SubjectRef(), domain.RelationLike)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecalculateRelationCount(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateUser(t, store, "usr_a", "alice")
	content := mustCreateContent(t, store, "post_1", "usr_a")

	for i := 0; i < 3; i++ {
		actorID := fmt.Sprintf("usr_l%d", i)
		mustCreateUser(t, store, actorID, fmt.Sprintf("l%d", i))
		_, err := store.ToggleRelation(ctx, actorID, content.SubjectRef(), domain.RelationLike)
		require.NoError(t, err)
	}

	require.NoError(t, store.RecalculateRelationCount(ctx, domain.RelationLike, content.SubjectRef()))

	got, err := store.GetContentByID(ctx, "post_1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.LikesCount)
}
