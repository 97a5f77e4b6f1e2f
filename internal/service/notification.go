package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/muralapp/mural-server/internal/domain"
	"github.com/muralapp/mural-server/internal/id"
	"github.com/muralapp/mural-server/internal/sse"
	"github.com/muralapp/mural-server/internal/store"
)

// NotificationService persists notification records and pushes them to
// connected clients. All writes here happen after the social write that
// triggered them has committed; a failure is logged and dropped, never
// propagated back to the caller's request.
type NotificationService struct {
	store      *store.Store
	sseManager EventEmitter
	logger     *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store *store.Store, sseManager EventEmitter, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:      store,
		sseManager: sseManager,
		logger:     logger,
	}
}

// Push records a notification for a recipient and emits it. Self
// notifications are silently skipped.
func (s *NotificationService) Push(ctx context.Context, recipientID, actorID string, kind domain.NotificationKind, subject domain.SubjectRef, preview string) {
	if recipientID == actorID || recipientID == "" {
		return
	}

	notifID, err := id.Generate("notif")
	if err != nil {
		s.logger.Warn("failed to generate notification id", "error", err)
		return
	}

	n := &domain.Notification{
		ID:          notifID,
		RecipientID: recipientID,
		ActorID:     actorID,
		Actor:       s.store.GetProfileSnapshot(ctx, actorID),
		Kind:        kind,
		Subject:     subject,
		Preview:     preview,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("failed to persist notification",
			"recipient_id", recipientID,
			"kind", kind,
			"error", err)
		return
	}

	s.sseManager.Emit(sse.NewNotificationCreatedEvent(n))
}

// List returns a user's notifications newest-first.
func (s *NotificationService) List(ctx context.Context, userID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Notification], error) {
	return s.store.ListNotificationsForUser(ctx, userID, params)
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notifID string) error {
	n, err := s.store.GetNotificationByID(ctx, notifID)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return store.ErrNotificationNotFound // Don't leak other users' notification IDs.
	}
	return s.store.MarkNotificationRead(ctx, notifID)
}
