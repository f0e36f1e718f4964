package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/session"
)

// NewRouter wires the middleware stack and all routes. The same-origin
// guard wraps every /api route (it only acts on mutating methods); the
// session gate wraps the admin-only group and runs after the guard.
func NewRouter(cfg *config.Config, codec *session.Codec,
	auth *AuthHandler, profile *ProfileHandler, links *LinkHandler, upload *UploadHandler,
	logger *zap.Logger) chi.Router {

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggerMiddleware(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	allowedOrigins := []string{"https://*", "http://*"}
	if cfg.Server.AllowedOrigin != "" {
		allowedOrigins = []string{cfg.Server.AllowedOrigin}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "linkbio"})
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(SameOriginGuard(cfg.Server.AllowedOrigin, logger))

		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/view", profile.View)
		r.Get("/links", links.List)

		// Admin-only mutations.
		r.Group(func(r chi.Router) {
			r.Use(RequireSession(codec))

			r.Post("/links", links.Create)
			r.Put("/links", links.Update)
			r.Delete("/links", links.Delete)
			r.Patch("/links", links.Reorder)

			r.Post("/profile", profile.Update)
			r.Post("/upload", upload.Upload)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "endpoint not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}
