package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/id"
)

// Conversation errors.
var (
	ErrConversationNotFound = apperr.NotFound("conversation not found")
	ErrConversationExists   = apperr.AlreadyExists("conversation already exists")
)

// CreateConversation stores a conversation and its per-participant
// index entries.
func (s *Store) CreateConversation(ctx context.Context, c *domain.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(convPrefix + c.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrConversationExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, key, c); err != nil {
			return err
		}

		for _, userID := range c.Participants {
			idxKey := []byte(convByUserPrefix + userID + ":" + c.ID)
			if err := txn.Set(idxKey, []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetConversationByID retrieves a conversation by ID.
func (s *Store) GetConversationByID(ctx context.Context, convID string) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c domain.Conversation
	err := s.get([]byte(convPrefix+convID), &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateDirectConversation resolves the canonical two-party thread
// for a pair of users, creating it on first contact. The derived ID
// makes the create race benign: the loser re-reads the winner's record.
// Returns (conversation, created, error).
func (s *Store) GetOrCreateDirectConversation(ctx context.Context, userA, userB string, snapshots map[string]domain.ProfileSnapshot) (*domain.Conversation, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	convID := domain.DirectConversationID(userA, userB)

	// Optimistic read first.
	existing, err := s.GetConversationByID(ctx, convID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return nil, false, err
	}

	now := time.Now()
	c := &domain.Conversation{
		ID:           convID,
		Type:         domain.ConversationDirect,
		Participants: []string{userA, userB},
		Snapshots:    snapshots,
		Unread:       map[string]int{userA: 0, userB: 0},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateConversation(ctx, c); err != nil {
		if errors.Is(err, ErrConversationExists) {
			// Race: another request created it first.
			existing, err := s.GetConversationByID(ctx, convID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return c, true, nil
}

// CreateGroupConversation creates a group thread with a generated ID.
func (s *Store) CreateGroupConversation(ctx context.Context, creatorID string, participants []string, meta domain.GroupMeta, snapshots map[string]domain.ProfileSnapshot) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	convID, err := id.Generate("conv")
	if err != nil {
		return nil, err
	}

	unread := make(map[string]int, len(participants))
	for _, p := range participants {
		unread[p] = 0
	}

	now := time.Now()
	meta.CreatorID = creatorID
	c := &domain.Conversation{
		ID:           convID,
		Type:         domain.ConversationGroup,
		Participants: participants,
		Snapshots:    snapshots,
		Group:        &meta,
		Unread:       unread,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateConversation(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListConversationsForUser returns a user's conversations ordered by
// most recent activity.
func (s *Store) ListConversationsForUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := convByUserPrefix + userID + ":"
	var convIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			convIDs = append(convIDs, strings.TrimPrefix(key, prefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	convs := make([]*domain.Conversation, 0, len(convIDs))
	for _, convID := range convIDs {
		c, err := s.GetConversationByID(ctx, convID)
		if err != nil {
			continue // Skip dangling index entries.
		}
		convs = append(convs, c)
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})

	return convs, nil
}

// UpdateConversationSnapshots refreshes the denormalized participant
// display info on a conversation. Best effort; unread counters and the
// last-message preview are owned by the message writes.
func (s *Store) UpdateConversationSnapshots(ctx context.Context, convID string, snapshots map[string]domain.ProfileSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		key := []byte(convPrefix + convID)

		var c domain.Conversation
		err := getInTxn(txn, key, &c)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrConversationNotFound
		}
		if err != nil {
			return err
		}

		c.Snapshots = snapshots
		return setInTxn(txn, key, &c)
	})
}
