// Package di provides dependency injection configuration for the Mural server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/muralapp/mural-server/internal/config"
	"github.com/muralapp/mural-server/internal/di/providers"
	"github.com/muralapp/mural-server/internal/logger"
	"github.com/muralapp/mural-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideVerifier)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideContentService)
	do.Provide(injector, providers.ProvideNotificationService)
	do.Provide(injector, providers.ProvideInteractionService)
	do.Provide(injector, providers.ProvideMessagingService)
	do.Provide(injector, providers.ProvideCommunityService)
	do.Provide(injector, providers.ProvideShopService)

	// Server
	do.Provide(injector, providers.ProvideWriteRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.ContentService](injector)
	_ = do.MustInvoke[*service.NotificationService](injector)
	_ = do.MustInvoke[*service.InteractionService](injector)
	_ = do.MustInvoke[*service.MessagingService](injector)
	_ = do.MustInvoke[*service.CommunityService](injector)
	_ = do.MustInvoke[*service.ShopService](injector)

	// Server
	_ = do.MustInvoke[*providers.WriteRateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
