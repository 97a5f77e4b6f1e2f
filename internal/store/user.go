package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
)

// User errors.
var (
	ErrUserNotFound = apperr.NotFound("user not found")
	ErrHandleTaken  = apperr.AlreadyExists("handle already taken")
)

// CreateUser creates a new user profile. The handle must already be in
// canonical form; uniqueness is enforced via the handle index.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		handleKey := []byte(userByHandlePrefix + u.Handle)
		if _, err := txn.Get(handleKey); err == nil {
			return ErrHandleTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		key := []byte(userPrefix + u.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, key, u); err != nil {
			return err
		}
		return txn.Set(handleKey, []byte(u.ID))
	})
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var u domain.User
	err := s.get([]byte(userPrefix+userID), &u)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByHandle retrieves a user by canonical handle.
func (s *Store) GetUserByHandle(ctx context.Context, handle string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var userID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userByHandlePrefix + handle))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, userID)
}

// UpdateUser rewrites a user record, moving the handle index if the
// handle changed.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(userPrefix + u.ID)

		var old domain.User
		err := getInTxn(txn, key, &old)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if old.Handle != u.Handle {
			newHandleKey := []byte(userByHandlePrefix + u.Handle)
			if _, err := txn.Get(newHandleKey); err == nil {
				return ErrHandleTaken
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete([]byte(userByHandlePrefix + old.Handle)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(newHandleKey, []byte(u.ID)); err != nil {
				return err
			}
		}

		// Counters are owned by the relation toggles; never let a profile
		// update clobber them with stale values.
		u.FollowersCount = old.FollowersCount
		u.FollowingCount = old.FollowingCount

		u.Touch()
		return setInTxn(txn, key, u)
	})
}

// GetProfileSnapshot fetches denormalized display info for a user.
// Missing users get a placeholder so callers can proceed.
func (s *Store) GetProfileSnapshot(ctx context.Context, userID string) domain.ProfileSnapshot {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return domain.PlaceholderProfile()
	}
	return u.Snapshot()
}
