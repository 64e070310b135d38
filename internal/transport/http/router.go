package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"socialstories/internal/handler"
	"socialstories/internal/httputil"
	authmw "socialstories/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	StoryHandler       *handler.StoryHandler
	TemplateHandler    *handler.TemplateHandler
	IntegrationHandler *handler.IntegrationHandler
	ContactHandler     *handler.ContactHandler
	HomeHandler        *handler.HomeHandler
	JWTSecret          string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Home payload; recent stories appear only for authenticated callers
	r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/", cfg.HomeHandler.Index)

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	r.Post("/contact", cfg.ContactHandler.Send)

	r.Route("/stories", func(r chi.Router) {
		// Gallery and proxy endpoints work anonymously; a logged-in caller's
		// own API keys take precedence over the server keys.
		r.Group(func(r chi.Router) {
			r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

			r.Get("/templates/list", cfg.TemplateHandler.List)
			r.Get("/templates/{id}", cfg.TemplateHandler.Get)

			r.Get("/api/serpapi_image_search", cfg.IntegrationHandler.ImageSearch)
			r.Get("/api/template_image", cfg.IntegrationHandler.TemplateImage)
			r.Post("/gemini/chat", cfg.IntegrationHandler.GeminiChat)
		})

		// Story CRUD requires authentication
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

			r.Get("/", cfg.StoryHandler.List)
			r.Post("/", cfg.StoryHandler.Create)
			r.Get("/{id}", cfg.StoryHandler.Get)
			r.Put("/{id}", cfg.StoryHandler.Update)
			r.Delete("/{id}", cfg.StoryHandler.Delete)

			r.Get("/use_template/{id}", cfg.TemplateHandler.Use)
		})
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Get("/account", cfg.AccountHandler.Me)
		r.Put("/account", cfg.AccountHandler.Update)
	})

	return r
}
