// Package api provides the HTTP API server and handlers for the Mural application.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/muralapp/mural-server/internal/identity"
	"github.com/muralapp/mural-server/internal/logger"
	"github.com/muralapp/mural-server/internal/ratelimit"
	"github.com/muralapp/mural-server/internal/sse"
	"github.com/muralapp/mural-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *store.Store
	services     *Services
	sseHandler   *sse.Handler
	sseManager   *sse.Manager
	verifier     identity.Verifier
	router       *chi.Mux
	api          huma.API
	logger       *logger.Logger
	writeLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, sseHandler *sse.Handler, sseManager *sse.Manager, verifier identity.Verifier, writeLimiter *ratelimit.KeyedRateLimiter, log *logger.Logger) *Server {
	s := &Server{
		store:        store,
		services:     services,
		sseHandler:   sseHandler,
		sseManager:   sseManager,
		verifier:     verifier,
		router:       chi.NewRouter(),
		logger:       log,
		writeLimiter: writeLimiter,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Mural API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerProfileRoutes()
	s.registerContentRoutes()
	s.registerInteractionRoutes()
	s.registerConversationRoutes()
	s.registerCommunityRoutes()
	s.registerShopRoutes()
	s.registerNotificationRoutes()

	// SSE is a long-lived stream and bypasses huma.
	s.router.Get("/api/v1/events/stream", s.sseHandler.ServeHTTP)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.writeLimiter != nil {
		s.router.Use(WriteRateLimitMiddleware(s.writeLimiter, s.logger))
	}
}
