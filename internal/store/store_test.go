package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muralapp/mural-server/internal/domain"
)

// setupTestStore creates a temporary store for testing
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "mural-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

// mustCreateUser seeds a user profile for tests.
func mustCreateUser(t *testing.T, s *Store, id, handle string) *domain.User {
	t.Helper()

	now := time.Now()
	u := &domain.User{
		ID:          id,
		Handle:      handle,
		DisplayName: handle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// mustCreateContent seeds a post for tests.
func mustCreateContent(t *testing.T, s *Store, id, authorID string) *domain.Content {
	t.Helper()

	now := time.Now()
	c := &domain.Content{
		ID:        id,
		AuthorID:  authorID,
		Type:      domain.ContentPost,
		Title:     "test post",
		Body:      "body",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateContent(context.Background(), c))
	return c
}
