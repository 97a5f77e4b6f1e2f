// Package sse implements Server-Sent Events for real-time social and
// messaging updates.
package sse

import (
	"time"

	"github.com/muralapp/mural-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventRelationToggled represents a follow/like/bookmark toggle.
	EventRelationToggled EventType = "relation.toggled"

	// EventContentCreated represents a new post or artwork.
	EventContentCreated EventType = "content.created"
	// EventContentDeleted represents a content deletion.
	EventContentDeleted EventType = "content.deleted"

	// EventCommentCreated represents a new comment on a content item.
	EventCommentCreated EventType = "comment.created"
	// EventCommentDeleted represents a comment deletion.
	EventCommentDeleted EventType = "comment.deleted"

	// EventConversationCreated represents a newly resolved conversation.
	EventConversationCreated EventType = "conversation.created"
	// EventMessageCreated represents a new message in a conversation.
	EventMessageCreated EventType = "message.created"
	// EventConversationRead represents a participant marking a thread read.
	EventConversationRead EventType = "conversation.read"

	// EventNotificationCreated represents a new notification for a user.
	EventNotificationCreated EventType = "notification.created"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct
// deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// UserIDs filters delivery to specific users. Nil means broadcast
	// to everyone connected. Not sent to clients.
	UserIDs []string `json:"-"`
}

// RelationToggledEventData is the data payload for relation toggles.
type RelationToggledEventData struct {
	ActorID string              `json:"actor_id"`
	Subject domain.SubjectRef   `json:"subject"`
	Kind    domain.RelationKind `json:"kind"`
	Active  bool                `json:"active"`
	Count   int                 `json:"count"`
}

// ContentEventData is the data payload for content events.
type ContentEventData struct {
	Content *domain.Content `json:"content"`
}

// ContentDeletedEventData is the data payload for content delete events.
type ContentDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ContentID string    `json:"content_id"`
}

// CommentEventData is the data payload for comment events.
type CommentEventData struct {
	Comment       *domain.Comment `json:"comment"`
	CommentsCount int             `json:"comments_count"`
}

// CommentDeletedEventData is the data payload for comment delete events.
type CommentDeletedEventData struct {
	CommentID string `json:"comment_id"`
	ContentID string `json:"content_id"`
}

// ConversationEventData is the data payload for conversation events.
type ConversationEventData struct {
	Conversation *domain.Conversation `json:"conversation"`
}

// MessageEventData is the data payload for message events.
type MessageEventData struct {
	Message *domain.Message `json:"message"`
}

// ConversationReadEventData is the data payload for read-state events.
type ConversationReadEventData struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
}

// NotificationEventData is the data payload for notification events.
type NotificationEventData struct {
	Notification *domain.Notification `json:"notification"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewRelationToggledEvent creates a relation.toggled event targeted at
// the subject's owner.
func NewRelationToggledEvent(actorID string, subject domain.SubjectRef, kind domain.RelationKind, active bool, count int, recipients ...string) Event {
	return Event{
		Type: EventRelationToggled,
		Data: RelationToggledEventData{
			ActorID: actorID,
			Subject: subject,
			Kind:    kind,
			Active:  active,
			Count:   count,
		},
		Timestamp: time.Now(),
		UserIDs:   recipients,
	}
}

// NewContentCreatedEvent creates a content.created event.
func NewContentCreatedEvent(content *domain.Content) Event {
	return Event{
		Type:      EventContentCreated,
		Data:      ContentEventData{Content: content},
		Timestamp: time.Now(),
	}
}

// NewContentDeletedEvent creates a content.deleted event.
func NewContentDeletedEvent(contentID string, deletedAt time.Time) Event {
	return Event{
		Type: EventContentDeleted,
		Data: ContentDeletedEventData{
			ContentID: contentID,
			DeletedAt: deletedAt,
		},
		Timestamp: time.Now(),
	}
}

// NewCommentCreatedEvent creates a comment.created event.
func NewCommentCreatedEvent(comment *domain.Comment, commentsCount int) Event {
	return Event{
		Type: EventCommentCreated,
		Data: CommentEventData{
			Comment:       comment,
			CommentsCount: commentsCount,
		},
		Timestamp: time.Now(),
	}
}

// NewCommentDeletedEvent creates a comment.deleted event.
func NewCommentDeletedEvent(commentID, contentID string) Event {
	return Event{
		Type: EventCommentDeleted,
		Data: CommentDeletedEventData{
			CommentID: commentID,
			ContentID: contentID,
		},
		Timestamp: time.Now(),
	}
}

// NewConversationCreatedEvent creates a conversation.created event
// delivered to the participants only.
func NewConversationCreatedEvent(conv *domain.Conversation) Event {
	return Event{
		Type:      EventConversationCreated,
		Data:      ConversationEventData{Conversation: conv},
		Timestamp: time.Now(),
		UserIDs:   conv.Participants,
	}
}

// NewMessageCreatedEvent creates a message.created event delivered to
// the participants only.
func NewMessageCreatedEvent(msg *domain.Message, participants []string) Event {
	return Event{
		Type:      EventMessageCreated,
		Data:      MessageEventData{Message: msg},
		Timestamp: time.Now(),
		UserIDs:   participants,
	}
}

// NewConversationReadEvent creates a conversation.read event delivered
// to the participants only.
func NewConversationReadEvent(convID, readerID string, participants []string) Event {
	return Event{
		Type: EventConversationRead,
		Data: ConversationReadEventData{
			ConversationID: convID,
			ReaderID:       readerID,
		},
		Timestamp: time.Now(),
		UserIDs:   participants,
	}
}

// NewNotificationCreatedEvent creates a notification.created event for
// the recipient only.
func NewNotificationCreatedEvent(n *domain.Notification) Event {
	return Event{
		Type:      EventNotificationCreated,
		Data:      NotificationEventData{Notification: n},
		Timestamp: time.Now(),
		UserIDs:   []string{n.RecipientID},
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
