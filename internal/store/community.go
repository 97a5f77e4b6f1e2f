package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
)

// Community errors.
var (
	ErrCommunityNotFound = apperr.NotFound("community not found")
	ErrCommunityExists   = apperr.AlreadyExists("community already exists")
)

// CreateCommunity creates a community. The slug must already be in
// canonical form; uniqueness is enforced via the slug index.
func (s *Store) CreateCommunity(ctx context.Context, c *domain.Community) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		slugKey := []byte(communityBySlugPrefix + c.Slug)
		if _, err := txn.Get(slugKey); err == nil {
			return ErrCommunityExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, []byte(communityPrefix+c.ID), c); err != nil {
			return err
		}
		return txn.Set(slugKey, []byte(c.ID))
	})
}

// GetCommunityByID retrieves a community by ID.
func (s *Store) GetCommunityByID(ctx context.Context, communityID string) (*domain.Community, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c domain.Community
	err := s.get([]byte(communityPrefix+communityID), &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCommunityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCommunityBySlug retrieves a community by its canonical slug.
func (s *Store) GetCommunityBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var communityID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(communityBySlugPrefix + slug))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCommunityNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			communityID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetCommunityByID(ctx, communityID)
}

// JoinCommunity adds a member and increments MembersCount in the same
// transaction. Idempotent.
func (s *Store) JoinCommunity(ctx context.Context, userID, communityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		memberKey := []byte(membershipPrefix + domain.MembershipKey(userID, communityID))
		if _, err := txn.Get(memberKey); err == nil {
			return nil // Already a member.
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		m := &domain.Membership{
			UserID:      userID,
			CommunityID: communityID,
			JoinedAt:    time.Now(),
		}
		if err := setInTxn(txn, memberKey, m); err != nil {
			return err
		}

		idxKey := []byte(membersByCommPrefix + communityID + ":" + userID)
		if err := txn.Set(idxKey, []byte{}); err != nil {
			return err
		}

		return s.updateMembersCountInTxn(txn, communityID, 1)
	})
}

// LeaveCommunity removes a member and decrements MembersCount in the
// same transaction, clamped at zero. Idempotent.
func (s *Store) LeaveCommunity(ctx context.Context, userID, communityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		memberKey := []byte(membershipPrefix + domain.MembershipKey(userID, communityID))
		if _, err := txn.Get(memberKey); errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Not a member.
		} else if err != nil {
			return err
		}

		if err := txn.Delete(memberKey); err != nil {
			return err
		}

		idxKey := []byte(membersByCommPrefix + communityID + ":" + userID)
		if err := txn.Delete(idxKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return s.updateMembersCountInTxn(txn, communityID, -1)
	})
}

// IsMember reports whether a user belongs to a community.
func (s *Store) IsMember(ctx context.Context, userID, communityID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists([]byte(membershipPrefix + domain.MembershipKey(userID, communityID)))
}

// ListCommunityMemberIDs returns the user IDs of a community's members.
func (s *Store) ListCommunityMemberIDs(ctx context.Context, communityID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := membersByCommPrefix + communityID + ":"
	var userIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			userIDs = append(userIDs, strings.TrimPrefix(key, prefix))
		}
		return nil
	})

	return userIDs, err
}

// ListCommunities returns all communities sorted by member count
// descending, then slug for stability.
func (s *Store) ListCommunities(ctx context.Context) ([]*domain.Community, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(communityPrefix)
	var communities []*domain.Community

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var c domain.Community
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			})
			if err != nil {
				continue
			}
			communities = append(communities, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by member count descending, then by slug for stability.
	sort.Slice(communities, func(i, j int) bool {
		if communities[i].MembersCount != communities[j].MembersCount {
			return communities[i].MembersCount > communities[j].MembersCount
		}
		return communities[i].Slug < communities[j].Slug
	})

	return communities, nil
}

// updateMembersCountInTxn adjusts a community's member counter.
func (s *Store) updateMembersCountInTxn(txn *badger.Txn, communityID string, delta int) error {
	key := []byte(communityPrefix + communityID)

	var c domain.Community
	err := getInTxn(txn, key, &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrCommunityNotFound
	}
	if err != nil {
		return err
	}

	c.MembersCount += delta
	if c.MembersCount < 0 {
		c.MembersCount = 0 // Safety guard.
	}
	c.Touch()

	return setInTxn(txn, key, &c)
}
