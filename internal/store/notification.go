package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
)

// Notification errors.
var (
	ErrNotificationNotFound = apperr.NotFound("notification not found")
)

// CreateNotification stores a notification and its per-recipient
// chronological index entry. Written after the social write that
// triggered it has committed; a failure here never rolls that back.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, []byte(notificationPrefix+n.ID), n); err != nil {
			return err
		}

		idxKey := formatTimestampIndexKey(notifByUserPrefix, n.RecipientID, n.CreatedAt, n.ID)
		return txn.Set(idxKey, []byte{})
	})
}

// GetNotificationByID retrieves a notification by ID.
func (s *Store) GetNotificationByID(ctx context.Context, notifID string) (*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var n domain.Notification
	err := s.get([]byte(notificationPrefix+notifID), &n)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkNotificationRead flags a notification as read. Idempotent.
func (s *Store) MarkNotificationRead(ctx context.Context, notifID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(notificationPrefix + notifID)

		var n domain.Notification
		err := getInTxn(txn, key, &n)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotificationNotFound
		}
		if err != nil {
			return err
		}

		if n.Read {
			return nil
		}
		n.Read = true
		return setInTxn(txn, key, &n)
	})
}

// ListNotificationsForUser returns a user's notifications newest-first
// with cursor pagination.
func (s *Store) ListNotificationsForUser(ctx context.Context, userID string, params PaginationParams) (*PaginatedResult[*domain.Notification], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params.Validate()

	prefix := notifByUserPrefix + userID + ":"
	ids, nextCursor, err := s.listTimestampIndexDesc(prefix, params)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Notification, 0, len(ids))
	for _, notifID := range ids {
		n, err := s.GetNotificationByID(ctx, notifID)
		if err != nil {
			continue // Skip dangling index entries.
		}
		items = append(items, n)
	}

	return &PaginatedResult[*domain.Notification]{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    nextCursor != "",
	}, nil
}
