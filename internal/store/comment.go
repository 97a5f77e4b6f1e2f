package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
)

// Comment errors.
var (
	ErrCommentNotFound = apperr.NotFound("comment not found")
)

// CreateComment appends a comment and increments the parent content's
// comment counter in the same transaction. Comments referencing missing
// content fail the whole write.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(commentPrefix + c.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if _, err := s.updateCommentsCountInTxn(txn, c.ContentID, 1); err != nil {
			return err
		}

		if err := setInTxn(txn, key, c); err != nil {
			return err
		}

		idxKey := formatTimestampIndexKey(commentByContentPrefix, c.ContentID, c.CreatedAt, c.ID)
		return txn.Set(idxKey, []byte{})
	})
}

// GetCommentByID retrieves a comment by ID.
func (s *Store) GetCommentByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c domain.Comment
	err := s.get([]byte(commentPrefix+commentID), &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment and decrements the parent content's
// comment counter in the same transaction, clamped at zero. Idempotent:
// deleting a missing comment is a no-op.
func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(commentPrefix + commentID)

		var c domain.Comment
		err := getInTxn(txn, key, &c)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(key); err != nil {
			return err
		}

		idxKey := formatTimestampIndexKey(commentByContentPrefix, c.ContentID, c.CreatedAt, c.ID)
		if err := txn.Delete(idxKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		// The parent may already be gone; its counter died with it.
		_, err = s.updateCommentsCountInTxn(txn, c.ContentID, -1)
		if errors.Is(err, ErrContentNotFound) {
			return nil
		}
		return err
	})
}

// SetCommentStatus records a moderation decision on a comment.
func (s *Store) SetCommentStatus(ctx context.Context, commentID string, status domain.ModerationStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(commentPrefix + commentID)

		var c domain.Comment
		err := getInTxn(txn, key, &c)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCommentNotFound
		}
		if err != nil {
			return err
		}

		c.Status = status
		return setInTxn(txn, key, &c)
	})
}

// updateCommentsCountInTxn adjusts a content item's comment counter.
func (s *Store) updateCommentsCountInTxn(txn *badger.Txn, contentID string, delta int) (int, error) {
	key := []byte(contentPrefix + contentID)

	var c domain.Content
	err := getInTxn(txn, key, &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrContentNotFound
	}
	if err != nil {
		return 0, err
	}

	c.CommentsCount += delta
	if c.CommentsCount < 0 {
		c.CommentsCount = 0 // Safety guard.
	}
	c.Touch()

	if err := setInTxn(txn, key, &c); err != nil {
		return 0, err
	}
	return c.CommentsCount, nil
}

// ListCommentsByContent returns a content item's comments oldest-first
// with cursor pagination. Rejected comments are filtered out.
func (s *Store) ListCommentsByContent(ctx context.Context, contentID string, params PaginationParams) (*PaginatedResult[*domain.Comment], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params.Validate()

	startKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, apperr.ErrValidation.WithCause(err)
	}

	prefix := commentByContentPrefix + contentID + ":"
	var ids []string
	var lastKey string
	hasMore := false

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := []byte(prefix)
		if startKey != "" {
			seek = []byte(startKey)
		}

		for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			if startKey != "" && key <= startKey {
				continue // Cursor itself and anything older is already served.
			}

			if len(ids) >= params.Limit {
				hasMore = true
				return nil
			}

			id, perr := parseTimestampIndexKeyRaw(key, prefix)
			if perr != nil {
				continue
			}
			ids = append(ids, id)
			lastKey = key
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Comment, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCommentByID(ctx, id)
		if err != nil {
			continue // Skip comments deleted between index scan and fetch.
		}
		if !c.Visible() {
			continue
		}
		items = append(items, c)
	}

	nextCursor := ""
	if hasMore {
		nextCursor = EncodeCursor(lastKey)
	}

	return &PaginatedResult[*domain.Comment]{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
