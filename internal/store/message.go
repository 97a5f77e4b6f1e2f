package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/id"
)

// Message errors.
var (
	ErrMessageNotFound = apperr.NotFound("message not found")
	ErrNotParticipant  = apperr.Forbidden("not a participant of this conversation")
)

// AppendMessage appends a message to a conversation. The message record,
// its chronological index entry, the conversation's last-message preview
// and every recipient's unread counter all change in one transaction.
// The sender's own counter never moves.
//
// Timestamps are strictly monotonic per conversation: a message never
// sorts at or before its predecessor even when the clock stalls.
func (s *Store) AppendMessage(ctx context.Context, convID, senderID, text, mediaRef string) (*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msgID, err := id.Generate("msg")
	if err != nil {
		return nil, err
	}

	var msg *domain.Message

	err = s.update(func(txn *badger.Txn) error {
		convKey := []byte(convPrefix + convID)

		var c domain.Conversation
		err := getInTxn(txn, convKey, &c)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrConversationNotFound
		}
		if err != nil {
			return err
		}

		if !c.HasParticipant(senderID) {
			return ErrNotParticipant
		}

		sentAt := time.Now()
		if c.LastMessage != nil && !sentAt.After(c.LastMessage.SentAt) {
			sentAt = c.LastMessage.SentAt.Add(time.Nanosecond)
		}

		msg = &domain.Message{
			ID:             msgID,
			ConversationID: convID,
			SenderID:       senderID,
			Text:           text,
			MediaRef:       mediaRef,
			ReadBy:         []string{senderID},
			SentAt:         sentAt,
		}

		if err := setInTxn(txn, []byte(messagePrefix+msgID), msg); err != nil {
			return err
		}

		idxKey := formatTimestampIndexKey(messageByConvPrefix, convID, sentAt, msgID)
		if err := txn.Set(idxKey, []byte{}); err != nil {
			return err
		}

		preview := msg.Preview()
		c.LastMessage = &preview
		if c.Unread == nil {
			c.Unread = make(map[string]int, len(c.Participants))
		}
		for _, p := range c.Participants {
			if p != senderID {
				c.Unread[p]++
			}
		}
		c.UpdatedAt = sentAt

		return setInTxn(txn, convKey, &c)
	})
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// GetMessageByID retrieves a message by ID.
func (s *Store) GetMessageByID(ctx context.Context, msgID string) (*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var m domain.Message
	err := s.get([]byte(messagePrefix+msgID), &m)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkConversationRead resets the reader's unread counter and stamps
// their unseen messages, newest first. Returns how many messages were
// newly marked. Idempotent: a second call is a no-op.
func (s *Store) MarkConversationRead(ctx context.Context, convID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	marked := 0

	err := s.update(func(txn *badger.Txn) error {
		marked = 0
		convKey := []byte(convPrefix + convID)

		var c domain.Conversation
		err := getInTxn(txn, convKey, &c)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrConversationNotFound
		}
		if err != nil {
			return err
		}

		if !c.HasParticipant(userID) {
			return ErrNotParticipant
		}

		if c.UnreadFor(userID) == 0 {
			return nil
		}

		// Walk messages newest-first. Once a message already read by
		// this user shows up, everything older is read too.
		prefix := messageByConvPrefix + convID + ":"
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix + "\xff")); it.ValidForPrefix([]byte(prefix)); it.Next() {
			msgID, perr := parseTimestampIndexKeyRaw(string(it.Item().Key()), prefix)
			if perr != nil {
				continue
			}

			msgKey := []byte(messagePrefix + msgID)
			var m domain.Message
			if err := getInTxn(txn, msgKey, &m); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}

			if m.ReadByUser(userID) {
				break
			}

			m.MarkReadBy(userID)
			if err := setInTxn(txn, msgKey, &m); err != nil {
				return err
			}
			marked++
		}

		if c.Unread == nil {
			c.Unread = make(map[string]int)
		}
		c.Unread[userID] = 0

		return setInTxn(txn, convKey, &c)
	})
	if err != nil {
		return 0, err
	}

	return marked, nil
}

// DeleteMessage soft-deletes a message, blanking its text. If it was the
// conversation's last message the preview is blanked too, in the same
// transaction.
func (s *Store) DeleteMessage(ctx context.Context, msgID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		msgKey := []byte(messagePrefix + msgID)

		var m domain.Message
		err := getInTxn(txn, msgKey, &m)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMessageNotFound
		}
		if err != nil {
			return err
		}

		if m.Deleted {
			return nil
		}
		m.Deleted = true

		if err := setInTxn(txn, msgKey, &m); err != nil {
			return err
		}

		convKey := []byte(convPrefix + m.ConversationID)
		var c domain.Conversation
		err = getInTxn(txn, convKey, &c)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if c.LastMessage != nil && c.LastMessage.MessageID == msgID {
			preview := m.Preview()
			c.LastMessage = &preview
			if err := setInTxn(txn, convKey, &c); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListMessages returns a conversation's messages with cursor pagination.
// Pages walk backwards from the newest message, but each page's items
// come back in ascending timestamp order ready for display.
func (s *Store) ListMessages(ctx context.Context, convID string, params PaginationParams) (*PaginatedResult[*domain.Message], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params.Validate()

	prefix := messageByConvPrefix + convID + ":"
	ids, nextCursor, err := s.listTimestampIndexDesc(prefix, params)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Message, 0, len(ids))
	for _, msgID := range ids {
		m, err := s.GetMessageByID(ctx, msgID)
		if err != nil {
			continue // Skip dangling index entries.
		}
		items = append(items, m)
	}

	// The index scan is descending; flip the page for chronological reads.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	return &PaginatedResult[*domain.Message]{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    nextCursor != "",
	}, nil
}
