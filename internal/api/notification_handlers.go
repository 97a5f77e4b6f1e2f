package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the caller's notifications newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark notification read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkNotificationRead)
}

// === DTOs ===

// NotificationResponse contains notification data in API responses.
type NotificationResponse struct {
	ID        string                 `json:"id" doc:"Notification ID"`
	ActorID   string                 `json:"actor_id" doc:"Acting user ID"`
	Actor     domain.ProfileSnapshot `json:"actor" doc:"Actor profile snapshot"`
	Kind      string                 `json:"kind" doc:"Trigger kind: follow, like, comment or message"`
	Subject   domain.SubjectRef      `json:"subject,omitempty" doc:"What the notification is about"`
	Preview   string                 `json:"preview,omitempty" doc:"Short text preview"`
	Read      bool                   `json:"read" doc:"Whether the notification has been read"`
	CreatedAt time.Time              `json:"created_at" doc:"Creation time"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		ActorID:   n.ActorID,
		Actor:     n.Actor,
		Kind:      string(n.Kind),
		Subject:   n.Subject,
		Preview:   n.Preview,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ListNotificationsInput contains parameters for listing notifications.
type ListNotificationsInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Items per page"`
	Cursor        string `query:"cursor" doc:"Opaque pagination cursor"`
}

// NotificationPageOutput wraps a paginated notification list for Huma.
type NotificationPageOutput struct {
	Body PageResponse[NotificationResponse]
}

// NotificationIDInput contains parameters addressing a notification.
type NotificationIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Notification ID"`
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, input *ListNotificationsInput) (*NotificationPageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Notification.List(ctx, userID, pagination(input.Limit, input.Cursor))
	if err != nil {
		return nil, err
	}

	items := make([]NotificationResponse, len(page.Items))
	for i, n := range page.Items {
		items[i] = toNotificationResponse(n)
	}

	return &NotificationPageOutput{Body: PageResponse[NotificationResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *NotificationIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Notification.MarkRead(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Notification read"}}, nil
}
