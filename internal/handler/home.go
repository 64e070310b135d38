package handler

import (
	"net/http"

	"socialstories/internal/httputil"
	"socialstories/internal/model"
	"socialstories/internal/service"
	"socialstories/internal/transport/http/middleware"
)

// recentStoriesLimit caps the home payload.
const recentStoriesLimit = 5

// HomeHandler serves the home payload: the caller's most recent stories when
// authenticated, an empty list otherwise.
type HomeHandler struct {
	storyService *service.StoryService
}

func NewHomeHandler(storyService *service.StoryService) *HomeHandler {
	return &HomeHandler{storyService: storyService}
}

// Index returns the home payload
// GET /
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	recent := []model.Story{}
	authenticated := false

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		authenticated = true
		stories, err := h.storyService.Recent(r.Context(), userID, recentStoriesLimit)
		if err != nil {
			httputil.WriteInternalError(w, "Failed to load recent stories")
			return
		}
		recent = stories
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated":  authenticated,
		"recent_stories": recent,
	})
}
