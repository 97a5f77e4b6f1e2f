package api

import (
	"github.com/muralapp/mural-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Profile      *service.ProfileService
	Content      *service.ContentService
	Interaction  *service.InteractionService
	Messaging    *service.MessagingService
	Community    *service.CommunityService
	Shop         *service.ShopService
	Notification *service.NotificationService
}
