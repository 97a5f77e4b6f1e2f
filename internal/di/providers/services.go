package providers

import (
	"github.com/samber/do/v2"

	"github.com/muralapp/mural-server/internal/config"
	"github.com/muralapp/mural-server/internal/identity"
	"github.com/muralapp/mural-server/internal/logger"
	"github.com/muralapp/mural-server/internal/service"
	"github.com/muralapp/mural-server/internal/validation"
)

// ProvideValidator provides the request payload validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideVerifier provides the identity verifier. Credentials live with
// the external identity provider; the dev verifier maps tokens straight
// to user IDs and production deployments swap in their provider's
// implementation here.
func ProvideVerifier(i do.Injector) (identity.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.App.Environment == "production" {
		log.Warn("no identity provider configured, bearer tokens are trusted as user IDs")
	}
	return identity.DevVerifier{}, nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideContentService provides the content publishing service.
func ProvideContentService(i do.Injector) (*service.ContentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContentService(storeHandle.Store, sseHandle.Manager, validator, log.Logger), nil
}

// ProvideNotificationService provides the notification service.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotificationService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideInteractionService provides the relations and comments service.
func ProvideInteractionService(i do.Injector) (*service.InteractionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInteractionService(storeHandle.Store, sseHandle.Manager, notifications, validator, log.Logger), nil
}

// ProvideMessagingService provides the conversations and messages service.
func ProvideMessagingService(i do.Injector) (*service.MessagingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMessagingService(storeHandle.Store, sseHandle.Manager, notifications, validator, log.Logger), nil
}

// ProvideCommunityService provides the community service.
func ProvideCommunityService(i do.Injector) (*service.CommunityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommunityService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideShopService provides the shop service.
func ProvideShopService(i do.Injector) (*service.ShopService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShopService(storeHandle.Store, validator, log.Logger), nil
}
