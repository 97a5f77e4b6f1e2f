package providers

import (
	"context"
	"net/http"
	"strings"

	"github.com/samber/do/v2"

	"github.com/muralapp/mural-server/internal/api"
	"github.com/muralapp/mural-server/internal/config"
	"github.com/muralapp/mural-server/internal/identity"
	"github.com/muralapp/mural-server/internal/logger"
	"github.com/muralapp/mural-server/internal/ratelimit"
	"github.com/muralapp/mural-server/internal/service"
	"github.com/muralapp/mural-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// WriteRateLimiterHandle wraps the write rate limiter with Shutdownable.
type WriteRateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *WriteRateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideWriteRateLimiter provides the per-client limiter for mutating requests.
func ProvideWriteRateLimiter(i do.Injector) (*WriteRateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &WriteRateLimiterHandle{KeyedRateLimiter: api.NewWriteRateLimiter(cfg.Limits)}, nil
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	verifier := do.MustInvoke[identity.Verifier](i)
	limiterHandle := do.MustInvoke[*WriteRateLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Profile:      do.MustInvoke[*service.ProfileService](i),
		Content:      do.MustInvoke[*service.ContentService](i),
		Interaction:  do.MustInvoke[*service.InteractionService](i),
		Messaging:    do.MustInvoke[*service.MessagingService](i),
		Community:    do.MustInvoke[*service.CommunityService](i),
		Shop:         do.MustInvoke[*service.ShopService](i),
		Notification: do.MustInvoke[*service.NotificationService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, func(r *http.Request) (string, error) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		return verifier.Verify(r.Context(), token)
	}, log.Logger)

	handler := api.NewServer(storeHandle.Store, services, sseHandler, sseHandle.Manager, verifier, limiterHandle.KeyedRateLimiter, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
