package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
)

// Content errors.
var (
	ErrContentNotFound = apperr.NotFound("content not found")
)

// CreateContent stores a new post or artwork and its chronological
// author index entry.
func (s *Store) CreateContent(ctx context.Context, c *domain.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(contentPrefix + c.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, key, c); err != nil {
			return err
		}

		authorKey := formatTimestampIndexKey(contentByAuthorPrefix, c.AuthorID, c.CreatedAt, c.ID)
		if err := txn.Set(authorKey, []byte{}); err != nil {
			return err
		}

		globalKey := fmt.Appendf(nil, "%s%s:%s", contentByTimePrefix, formatSortableTimestamp(c.CreatedAt), c.ID)
		return txn.Set(globalKey, []byte{})
	})
}

// GetContentByID retrieves a content item by ID.
func (s *Store) GetContentByID(ctx context.Context, contentID string) (*domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c domain.Content
	err := s.get([]byte(contentPrefix+contentID), &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContent rewrites editable fields of a content item.
// Counters are owned by the relation and comment writes; stale values
// on the incoming record never overwrite them.
func (s *Store) UpdateContent(ctx context.Context, c *domain.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(contentPrefix + c.ID)

		var old domain.Content
		err := getInTxn(txn, key, &old)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrContentNotFound
		}
		if err != nil {
			return err
		}

		c.LikesCount = old.LikesCount
		c.CommentsCount = old.CommentsCount
		c.CreatedAt = old.CreatedAt
		c.Touch()

		return setInTxn(txn, key, c)
	})
}

// DeleteContent removes a content item and its index entries.
// Relation edges pointing at it stay behind; toggling them off later is
// still idempotent and the counters die with the record.
func (s *Store) DeleteContent(ctx context.Context, contentID string) error {
	c, err := s.GetContentByID(ctx, contentID)
	if err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(contentPrefix + contentID)); err != nil {
			return err
		}

		authorKey := formatTimestampIndexKey(contentByAuthorPrefix, c.AuthorID, c.CreatedAt, c.ID)
		if err := txn.Delete(authorKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		globalKey := fmt.Appendf(nil, "%s%s:%s", contentByTimePrefix, formatSortableTimestamp(c.CreatedAt), c.ID)
		if err := txn.Delete(globalKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return nil
	})
}

// ListContentByAuthor returns an author's content in reverse
// chronological order with cursor pagination.
func (s *Store) ListContentByAuthor(ctx context.Context, authorID string, params PaginationParams) (*PaginatedResult[*domain.Content], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params.Validate()

	prefix := contentByAuthorPrefix + authorID + ":"
	ids, nextCursor, err := s.listTimestampIndexDesc(prefix, params)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Content, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetContentByID(ctx, id)
		if err != nil {
			continue // Skip records deleted between index scan and fetch.
		}
		items = append(items, c)
	}

	return &PaginatedResult[*domain.Content]{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    nextCursor != "",
	}, nil
}

// listTimestampIndexDesc walks a chronological index newest-first and
// returns record IDs plus the cursor for the next page. The cursor is
// the raw index key of the last item returned.
func (s *Store) listTimestampIndexDesc(prefix string, params PaginationParams) ([]string, string, error) {
	startKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, "", apperr.ErrValidation.WithCause(err)
	}

	var ids []string
	var lastKey string
	hasMore := false

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		// 0xff seeks past every key under the prefix for a reverse scan.
		seek := []byte(prefix + "\xff")
		if startKey != "" {
			seek = []byte(startKey)
		}

		for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			if startKey != "" && key >= startKey {
				continue // Cursor itself and anything newer is already served.
			}

			if len(ids) >= params.Limit {
				hasMore = true
				return nil
			}

			// ID sits after the fixed-width timestamp; prefix includes the scope.
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
		return nil, "", err
	}

	if !hasMore {
		return ids, "", nil
	}
	return ids, EncodeCursor(lastKey), nil
}
