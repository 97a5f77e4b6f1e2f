package domain

import (
	"sort"
	"strings"
	"time"
)

// ConversationType distinguishes two-party threads from group threads.
type ConversationType string

const (
	ConversationDirect ConversationType = "direct"
	ConversationGroup  ConversationType = "group"
)

// DirectConversationID derives the canonical identity of a two-party
// conversation. The same pair of users always maps to the same ID
// regardless of argument order.
func DirectConversationID(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// MessagePreview is the denormalized last-message snapshot kept on the
// conversation so list views never need a per-thread message fetch.
type MessagePreview struct {
	MessageID string    `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

// GroupMeta holds display info for group conversations.
type GroupMeta struct {
	Name      string `json:"name"`
	AvatarRef string `json:"avatar_ref,omitempty"`
	CreatorID string `json:"creator_id"`
}

// Conversation is a message thread between two or more users.
// For direct threads the ID is derived from the participant pair; the
// resolver relies on this to get-or-create without a lookup index.
type Conversation struct {
	ID           string           `json:"id"`
	Type         ConversationType `json:"type"`
	Participants []string         `json:"participants"`
	// Snapshots holds denormalized display info per participant,
	// captured at creation time and refreshed best-effort.
	Snapshots map[string]ProfileSnapshot `json:"snapshots,omitempty"`
	Group     *GroupMeta                 `json:"group,omitempty"`
	// LastMessage and Unread are updated in the same transaction as
	// every message append.
	LastMessage *MessagePreview `json:"last_message,omitempty"`
	Unread      map[string]int  `json:"unread,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Conversation) Touch() {
	c.UpdatedAt = time.Now()
}

// HasParticipant reports whether the user belongs to this conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// UnreadFor returns the unread counter for a participant.
func (c *Conversation) UnreadFor(userID string) int {
	if c.Unread == nil {
		return 0
	}
	return c.Unread[userID]
}
