package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"socialstories/internal/config"
	"socialstories/internal/httputil"
	"socialstories/internal/model"
	"socialstories/internal/service"
	"socialstories/internal/transport/http/middleware"
)

// IntegrationHandler proxies the external APIs used by the story editor:
// image search for page illustrations and Gemini for writing assistance.
// Response shapes mirror what the frontend already consumes.
type IntegrationHandler struct {
	searcher      service.ImageSearcher
	geminiService *service.GeminiService
	userService   *service.UserService
	config        *config.Config
}

func NewIntegrationHandler(searcher service.ImageSearcher, geminiService *service.GeminiService, userService *service.UserService, cfg *config.Config) *IntegrationHandler {
	return &IntegrationHandler{
		searcher:      searcher,
		geminiService: geminiService,
		userService:   userService,
		config:        cfg,
	}
}

// ImageSearch proxies an image search for the create-story page
// GET /stories/api/serpapi_image_search?query=...
func (h *IntegrationHandler) ImageSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"images": []string{}})
		return
	}

	apiKey := h.resolveSerpKey(r)
	if apiKey == "" {
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  "Missing SerpAPI key",
			"images": []string{},
		})
		return
	}

	images, err := h.searcher.Search(r.Context(), query, apiKey)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  fmt.Sprintf("SerpAPI error: %v", err),
			"images": []string{},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

// TemplateImage fetches a single thumbnail with placeholder fallback
// GET /stories/api/template_image?query=...
func (h *IntegrationHandler) TemplateImage(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"url": "", "used_query": query, "fallback": true,
		})
		return
	}

	apiKey := h.resolveSerpKey(r)
	if apiKey == "" {
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"url": "", "used_query": query, "fallback": true, "error": "Missing SerpAPI key",
		})
		return
	}

	url, err := h.searcher.First(r.Context(), query, apiKey)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"url": "", "used_query": query, "fallback": true, "error": err.Error(),
		})
		return
	}
	if url == "" {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"url": model.TemplatePlaceholderImage, "used_query": query, "fallback": true,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"url": url, "used_query": query, "fallback": false,
	})
}

// geminiChatRequest is the assistant proxy request body.
type geminiChatRequest struct {
	Prompt string `json:"prompt"`
}

// GeminiChat proxies a prompt to the Gemini API
// POST /stories/gemini/chat
func (h *IntegrationHandler) GeminiChat(w http.ResponseWriter, r *http.Request) {
	var req geminiChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGeminiError(w, http.StatusBadRequest, "No JSON received.")
		return
	}
	if req.Prompt == "" {
		writeGeminiError(w, http.StatusBadRequest, "No prompt provided in request.")
		return
	}

	result, err := h.geminiService.Chat(r.Context(), req.Prompt, h.resolveGeminiKey(r))
	if err != nil {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			writeGeminiError(w, upstream.Status, upstream.Message)
			return
		}
		writeGeminiError(w, http.StatusInternalServerError, fmt.Sprintf("Gemini API error: %v", err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// writeGeminiError keeps the assistant's error shape: the status is repeated
// in the body so the frontend can render it without reading headers.
func writeGeminiError(w http.ResponseWriter, status int, message string) {
	httputil.WriteJSON(w, status, map[string]interface{}{
		"type":    "error",
		"content": message,
		"status":  status,
	})
}

func (h *IntegrationHandler) resolveSerpKey(r *http.Request) string {
	if user := h.currentUser(r); user != nil && user.SerpAPIKey != nil && *user.SerpAPIKey != "" {
		return *user.SerpAPIKey
	}
	return h.config.SerpAPIKey
}

func (h *IntegrationHandler) resolveGeminiKey(r *http.Request) string {
	if user := h.currentUser(r); user != nil && user.GeminiAPIKey != nil && *user.GeminiAPIKey != "" {
		return *user.GeminiAPIKey
	}
	return h.config.GeminiAPIKey
}

func (h *IntegrationHandler) currentUser(r *http.Request) *model.User {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}
