package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialstories/internal/config"
	"socialstories/internal/httputil"
	"socialstories/internal/model"
	"socialstories/internal/service"
	"socialstories/internal/transport/http/middleware"
)

// StoryHandler groups story CRUD endpoints.
type StoryHandler struct {
	storyService *service.StoryService
	config       *config.Config
}

func NewStoryHandler(storyService *service.StoryService, cfg *config.Config) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		config:       cfg,
	}
}

// Create handles story creation
// POST /stories
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		httputil.WriteValidationError(w, model.CodeValidationFailed, fields)
		return
	}

	story, err := h.storyService.Create(r.Context(), userID, req)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to create story")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, story)
}

// List returns one page of the caller's stories, newest first
// GET /stories?page=N
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}

	result, err := h.storyService.List(r.Context(), userID, page, h.config.StoriesPerPage)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list stories")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Get returns a single story owned by the caller
// GET /stories/{id}
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	storyID, err := parseStoryID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid story ID")
		return
	}

	story, err := h.storyService.Get(r.Context(), storyID, userID)
	if err != nil {
		h.writeStoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, story)
}

// Update edits a story owned by the caller
// PUT /stories/{id}
func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	storyID, err := parseStoryID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid story ID")
		return
	}

	var req model.StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		httputil.WriteValidationError(w, model.CodeValidationFailed, fields)
		return
	}

	story, err := h.storyService.Update(r.Context(), storyID, userID, req)
	if err != nil {
		h.writeStoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, story)
}

// Delete removes a story owned by the caller
// DELETE /stories/{id}
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	storyID, err := parseStoryID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid story ID")
		return
	}

	if err := h.storyService.Delete(r.Context(), storyID, userID); err != nil {
		h.writeStoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Your story has been deleted!",
	})
}

func (h *StoryHandler) writeStoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrStoryNotFound):
		httputil.WriteNotFound(w, "Story not found")
	case errors.Is(err, model.ErrNotStoryOwner):
		httputil.WriteForbidden(w, "You do not have permission to access this story")
	default:
		httputil.WriteInternalError(w, "Failed to process story")
	}
}

func parseStoryID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
