package domain

import "time"

// NotificationKind identifies what triggered a notification.
type NotificationKind string

const (
	NotifyFollow  NotificationKind = "follow"
	NotifyLike    NotificationKind = "like"
	NotifyComment NotificationKind = "comment"
	NotifyMessage NotificationKind = "message"
)

// Notification is a per-recipient record emitted after a social write
// commits. Delivery to devices is an external concern; these records
// back the in-app notification feed.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	ActorID     string           `json:"actor_id"`
	Actor       ProfileSnapshot  `json:"actor"`
	Kind        NotificationKind `json:"kind"`
	Subject     SubjectRef       `json:"subject,omitempty"`
	Preview     string           `json:"preview,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
