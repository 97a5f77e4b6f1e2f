package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
)

// ToggleResult reports the state after a relation toggle.
type ToggleResult struct {
	// Active is true when the toggle turned the relation on.
	Active bool
	// Count is the subject's resulting counter value. It is -1 for
	// kinds that carry no counter (bookmarks).
	Count int
}

// subjectIndexKey builds the reverse index key listing actors per subject.
func subjectIndexKey(kind domain.RelationKind, subject domain.SubjectRef, actorID string) []byte {
	return fmt.Appendf(nil, "%s%s:%s:%s:%s", relationBySubjPrefix, kind, subject.Type, subject.ID, actorID)
}

// ToggleRelation flips a relation edge. A missing edge is created and
// the subject's counter incremented; an existing edge is deleted and the
// counter decremented, clamped at zero. Edge and counter always change
// in the same transaction, so a crash can never separate them.
//
// Counter pairing per kind:
//   - follow: subject user's FollowersCount and actor's FollowingCount
//   - like: content item's LikesCount
//   - bookmark: no counter, the edge alone
func (s *Store) ToggleRelation(ctx context.Context, actorID string, subject domain.SubjectRef, kind domain.RelationKind) (*ToggleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ToggleResult{Count: -1}

	err := s.update(func(txn *badger.Txn) error {
		relKey := []byte(relationPrefix + domain.RelationKey(actorID, subject, kind))
		idxKey := subjectIndexKey(kind, subject, actorID)

		_, err := txn.Get(relKey)
		exists := err == nil
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		delta := 1
		if exists {
			delta = -1
		}

		// Apply the counter first so a missing subject fails the whole
		// transaction before any edge is written.
		count, err := s.applyRelationCounterInTxn(txn, actorID, subject, kind, delta)
		if err != nil {
			return err
		}
		result.Count = count

		if exists {
			if err := txn.Delete(relKey); err != nil {
				return err
			}
			if err := txn.Delete(idxKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			result.Active = false
			return nil
		}

		rel := &domain.Relation{
			ActorID:   actorID,
			Subject:   subject,
			Kind:      kind,
			CreatedAt: time.Now(),
		}
		if err := setInTxn(txn, relKey, rel); err != nil {
			return err
		}
		if err := txn.Set(idxKey, []byte{}); err != nil {
			return err
		}
		result.Active = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// applyRelationCounterInTxn mutates the counters paired with a relation
// kind and returns the subject's resulting value. Kinds without a
// counter still verify the subject exists and return -1.
func (s *Store) applyRelationCounterInTxn(txn *badger.Txn, actorID string, subject domain.SubjectRef, kind domain.RelationKind, delta int) (int, error) {
	switch kind {
	case domain.RelationFollow:
		count, err := s.updateFollowersCountInTxn(txn, subject.ID, delta)
		if err != nil {
			return -1, err
		}
		if _, err := s.updateFollowingCountInTxn(txn, actorID, delta); err != nil {
			return -1, err
		}
		return count, nil

	case domain.RelationLike:
		return s.updateLikesCountInTxn(txn, subject.ID, delta)

	case domain.RelationBookmark:
		if _, err := txn.Get([]byte(contentPrefix + subject.ID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return -1, ErrContentNotFound
			}
			return -1, err
		}
		return -1, nil

	default:
		return -1, fmt.Errorf("unknown relation kind: %s", kind)
	}
}

// updateFollowersCountInTxn adjusts a user's follower counter.
func (s *Store) updateFollowersCountInTxn(txn *badger.Txn, userID string, delta int) (int, error) {
	key := []byte(userPrefix + userID)

	var u domain.User
	err := getInTxn(txn, key, &u)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	u.FollowersCount += delta
	if u.FollowersCount < 0 {
		u.FollowersCount = 0 // Safety guard.
	}
	u.Touch()

	if err := setInTxn(txn, key, &u); err != nil {
		return 0, err
	}
	return u.FollowersCount, nil
}

// updateFollowingCountInTxn adjusts a user's following counter.
func (s *Store) updateFollowingCountInTxn(txn *badger.Txn, userID string, delta int) (int, error) {
	key := []byte(userPrefix + userID)

	var u domain.User
	err := getInTxn(txn, key, &u)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	u.FollowingCount += delta
	if u.FollowingCount < 0 {
		u.FollowingCount = 0 // Safety guard.
	}
	u.Touch()

	if err := setInTxn(txn, key, &u); err != nil {
		return 0, err
	}
	return u.FollowingCount, nil
}

// updateLikesCountInTxn adjusts a content item's like counter.
func (s *Store) updateLikesCountInTxn(txn *badger.Txn, contentID string, delta int) (int, error) {
	key := []byte(contentPrefix + contentID)

	var c domain.Content
	err := getInTxn(txn, key, &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrContentNotFound
	}
	if err != nil {
		return 0, err
	}

	c.LikesCount += delta
	if c.LikesCount < 0 {
		c.LikesCount = 0 // Safety guard.
	}
	c.Touch()

	if err := setInTxn(txn, key, &c); err != nil {
		return 0, err
	}
	return c.LikesCount, nil
}

// HasRelation reports whether a relation edge currently exists.
func (s *Store) HasRelation(ctx context.Context, actorID string, subject domain.SubjectRef, kind domain.RelationKind) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists([]byte(relationPrefix + domain.RelationKey(actorID, subject, kind)))
}

// ListRelationActorIDs returns the actors holding a given relation to a
// subject, e.g. a user's followers or a post's likers.
func (s *Store) ListRelationActorIDs(ctx context.Context, kind domain.RelationKind, subject domain.SubjectRef) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%s%s:%s:%s:", relationBySubjPrefix, kind, subject.Type, subject.ID)
	var actorIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			actorIDs = append(actorIDs, strings.TrimPrefix(key, prefix))
		}
		return nil
	})

	return actorIDs, err
}

// ListActorSubjectIDs returns the subjects an actor holds a relation to,
// filtered by subject type, e.g. a user's bookmarked posts.
func (s *Store) ListActorSubjectIDs(ctx context.Context, actorID string, kind domain.RelationKind, subjectType domain.SubjectType) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%s%s:%s:%s:", relationPrefix, kind, actorID, subjectType)
	var subjectIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			subjectIDs = append(subjectIDs, strings.TrimPrefix(key, prefix))
		}
		return nil
	})

	return subjectIDs, err
}

// RecalculateRelationCount recounts a subject's edges from the index and
// rewrites the denormalized counter. Use for data repair or verification.
func (s *Store) RecalculateRelationCount(ctx context.Context, kind domain.RelationKind, subject domain.SubjectRef) error {
	actorIDs, err := s.ListRelationActorIDs(ctx, kind, subject)
	if err != nil {
		return err
	}
	count := len(actorIDs)

	return s.update(func(txn *badger.Txn) error {
		switch kind {
		case domain.RelationFollow:
			var u domain.User
			key := []byte(userPrefix + subject.ID)
			if err := getInTxn(txn, key, &u); err != nil {
				return err
			}
			u.FollowersCount = count
			u.Touch()
			return setInTxn(txn, key, &u)

		case domain.RelationLike:
			var c domain.Content
			key := []byte(contentPrefix + subject.ID)
			if err := getInTxn(txn, key, &c); err != nil {
				return err
			}
			c.LikesCount = count
			c.Touch()
			return setInTxn(txn, key, &c)

		default:
			return nil // No counter to repair.
		}
	})
}
