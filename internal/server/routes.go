package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"searchbar/internal/cache"
	"searchbar/internal/handlers"
	"searchbar/internal/handlers/api"
	"searchbar/internal/middleware"
)

// Store is the persistence the routes need. *db.DB implements it.
type Store interface {
	handlers.Store
	handlers.Pinger
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, store Store, blockCache *cache.BlockCache) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)

	// Initialize handlers
	probeHandler := handlers.NewProbeHandler(map[string]handlers.Pinger{"database": store})
	searchHandler := handlers.NewSearchHandler(store, blockCache, s.Cfg)
	blockHandler := handlers.NewBlockHandler(store, blockCache, s.Cfg)
	pageHandler := handlers.NewPageHandler(store, s.Cfg)
	resolveHandler := api.NewResolveHandler(store, blockCache, s.Cfg)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes - admin sign-in only works when OIDC is configured
	if s.Cfg.IsOIDCEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		log.Println("OIDC authentication is disabled. Set OIDC_ISSUER and OIDC_CLIENT_ID to enable the admin interface.")
	}

	// Admin routes (ADMIN_EMAILS only)
	admin := s.App.Group("/admin", authMiddleware.RequireAdmin)
	admin.Get("/blocks", blockHandler.Index)
	admin.Get("/blocks/new", blockHandler.New)
	admin.Post("/blocks", blockHandler.Create)
	admin.Get("/blocks/:id/edit", blockHandler.Edit)
	admin.Post("/blocks/:id", blockHandler.Update)
	admin.Post("/blocks/:id/delete", blockHandler.Delete)
	admin.Get("/pages", pageHandler.Index)
	admin.Post("/pages", pageHandler.Create)
	admin.Post("/pages/:id/delete", pageHandler.Delete)

	// JSON API
	v1 := s.App.Group("/api/v1")
	v1.Get("/blocks/:slug/resolve", resolveHandler.Resolve)

	// Pages - must be last (catch-all for system paths and aliases)
	s.App.Get("/*", searchHandler.Show)
	s.App.Post("/*", searchHandler.Submit)

	return nil
}
