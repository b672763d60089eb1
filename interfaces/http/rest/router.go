// Package rest assembles the HTTP surface: routing, middleware order, CORS.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"notemap-backend/interfaces/http/rest/handlers"
	"notemap-backend/interfaces/http/rest/middleware"
	"notemap-backend/pkg/auth"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Notes       *handlers.NoteHandler
	Connections *handlers.ConnectionHandler
	Sync        *handlers.SyncHandler
	Transfer    *handlers.TransferHandler
	Preferences *handlers.PreferencesHandler
	Credentials *handlers.CredentialHandler
	Health      *handlers.HealthHandler
}

// NewRouter builds the chi router. Probes sit outside authentication;
// everything under /api/v1 requires a valid token.
func NewRouter(
	h Handlers,
	validator *auth.JWTValidator,
	limiter *auth.RateLimiter,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(validator, logger))
		r.Use(middleware.RateLimit(limiter, logger))

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", h.Notes.List)
			r.Post("/", h.Notes.Create)
			r.Get("/{id}", h.Notes.Get)
			r.Put("/{id}", h.Notes.Update)
			r.Delete("/{id}", h.Notes.Delete)
		})

		r.Route("/connections", func(r chi.Router) {
			r.Get("/", h.Connections.List)
			r.Post("/", h.Connections.Create)
			r.Delete("/{id}", h.Connections.Delete)
		})

		r.Post("/sync/{provider}", h.Sync.SyncAll)

		r.Post("/export", h.Transfer.Export)
		r.Post("/import", h.Transfer.Import)

		r.Route("/user/preferences", func(r chi.Router) {
			r.Get("/", h.Preferences.Get)
			r.Put("/", h.Preferences.Update)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/drive/url", h.Credentials.DriveAuthURL)
			r.Post("/drive/callback", h.Credentials.DriveCallback)
			r.Post("/github/token", h.Credentials.GitHubToken)
			r.Delete("/{provider}", h.Credentials.Disconnect)
			r.Get("/status", h.Credentials.Status)
		})
	})

	return r
}
