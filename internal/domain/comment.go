package domain

import "time"

// ModerationStatus is set by the external moderation collaborator.
// The core only reads it when deciding which comments are publicly visible.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// Comment is an append-only record referencing its parent content item.
// Creation increments the parent's CommentsCount in the same transaction;
// deletion mirrors the pairing with a clamped decrement.
type Comment struct {
	ID        string           `json:"id"`
	AuthorID  string           `json:"author_id"`
	ContentID string           `json:"content_id"`
	Text      string           `json:"text"`
	Status    ModerationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// Visible reports whether the comment counts as publicly visible.
// Pending comments show until moderation says otherwise.
func (c *Comment) Visible() bool {
	return c.Status != ModerationRejected
}
