package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialstories/internal/config"
	"socialstories/internal/httputil"
	"socialstories/internal/model"
	"socialstories/internal/service"
	"socialstories/internal/transport/http/middleware"
)

// TemplateHandler serves the starter-template gallery.
type TemplateHandler struct {
	templateService *service.TemplateService
	userService     *service.UserService
	config          *config.Config
}

func NewTemplateHandler(templateService *service.TemplateService, userService *service.UserService, cfg *config.Config) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		userService:     userService,
		config:          cfg,
	}
}

// List returns the catalog with thumbnails
// GET /stories/templates/list
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	apiKey := h.resolveSerpKey(r)
	templates := h.templateService.List(r.Context(), apiKey)
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates,
	})
}

// Get returns a single template
// GET /stories/templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.templateService.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, model.ErrTemplateNotFound) {
			httputil.WriteNotFound(w, "Template not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get template")
		return
	}

	t.Image = h.templateService.Thumbnail(r.Context(), t, h.resolveSerpKey(r))
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"template": t,
	})
}

// Use returns the create-form prefill parameters for a template
// GET /stories/use_template/{id}
func (h *TemplateHandler) Use(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	prefill, err := h.templateService.PrefillParams(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, model.ErrTemplateNotFound) {
			httputil.WriteNotFound(w, "Template not found.")
			return
		}
		httputil.WriteInternalError(w, "Failed to load template")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, prefill)
}

// resolveSerpKey prefers the authenticated caller's stored key and falls back
// to the server-level key. Anonymous callers get the server key.
func (h *TemplateHandler) resolveSerpKey(r *http.Request) string {
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		if user, err := h.userService.GetByID(r.Context(), userID); err == nil {
			if user.SerpAPIKey != nil && *user.SerpAPIKey != "" {
				return *user.SerpAPIKey
			}
		}
	}
	return h.config.SerpAPIKey
}
