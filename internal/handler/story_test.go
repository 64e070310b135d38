package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"socialstories/internal/config"
	"socialstories/internal/model"
	"socialstories/internal/service"
	"socialstories/internal/transport/http/middleware"
)

func testConfig() *config.Config {
	return &config.Config{StoriesPerPage: 10, JWTSecret: "test-secret"}
}

// authedRequest builds a request carrying the user ID the way the auth
// middleware would, plus the chi URL params.
func authedRequest(method, target string, body []byte, userID int64, params map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := req.Context()
	if userID != 0 {
		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code, body.Error.Message
}

func newStoryHandler(stories ...*model.Story) *StoryHandler {
	repo := newFakeStoryRepo(stories...)
	return NewStoryHandler(service.NewStoryService(repo, nil), testConfig())
}

func TestStoryHandler_Create(t *testing.T) {
	h := newStoryHandler()

	body, _ := json.Marshal(model.StoryRequest{
		Title:   "My First Day",
		Content: `[{"text":"I wake up"}]`,
	})
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/stories", body, 1, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, http.StatusCreated, rec.Body)
	}

	var story model.Story
	if err := json.Unmarshal(rec.Body.Bytes(), &story); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if story.UserID != 1 {
		t.Errorf("UserID = %d, want 1", story.UserID)
	}
	if len(story.Pages) != 1 {
		t.Errorf("Pages = %v, want one decoded page", story.Pages)
	}
}

func TestStoryHandler_Create_ValidationError(t *testing.T) {
	h := newStoryHandler()

	body, _ := json.Marshal(model.StoryRequest{Title: "", Content: "short"})
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/stories", body, 1, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := resp.Fields["title"]; !ok {
		t.Errorf("expected title field error, got %v", resp.Fields)
	}
	if _, ok := resp.Fields["content"]; !ok {
		t.Errorf("expected content field error, got %v", resp.Fields)
	}
}

// The ownership scenario: alice (1) creates a story; bob (2) cannot view,
// edit or delete it; unknown IDs stay 404.
func TestStoryHandler_Ownership(t *testing.T) {
	story := &model.Story{ID: 10, UserID: 1, Title: "Alice's story", Content: "ten chars!"}

	tests := []struct {
		name       string
		method     string
		userID     int64
		storyID    string
		body       []byte
		wantStatus int
	}{
		{name: "owner reads own story", method: http.MethodGet, userID: 1, storyID: "10", wantStatus: http.StatusOK},
		{name: "other user is forbidden", method: http.MethodGet, userID: 2, storyID: "10", wantStatus: http.StatusForbidden},
		{name: "unknown story is not found", method: http.MethodGet, userID: 1, storyID: "999", wantStatus: http.StatusNotFound},
		{name: "bad id is a bad request", method: http.MethodGet, userID: 1, storyID: "abc", wantStatus: http.StatusBadRequest},
		{name: "other user cannot delete", method: http.MethodDelete, userID: 2, storyID: "10", wantStatus: http.StatusForbidden},
		{name: "owner deletes own story", method: http.MethodDelete, userID: 1, storyID: "10", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newStoryHandler(story)

			target := fmt.Sprintf("/stories/%s", tt.storyID)
			req := authedRequest(tt.method, target, tt.body, tt.userID, map[string]string{"id": tt.storyID})

			rec := httptest.NewRecorder()
			switch tt.method {
			case http.MethodGet:
				h.Get(rec, req)
			case http.MethodDelete:
				h.Delete(rec, req)
			}

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}

func TestStoryHandler_Update_Forbidden(t *testing.T) {
	story := &model.Story{ID: 10, UserID: 1, Title: "Alice's story", Content: "ten chars!"}
	h := newStoryHandler(story)

	body, _ := json.Marshal(model.StoryRequest{Title: "Hijacked", Content: "0123456789"})
	rec := httptest.NewRecorder()
	h.Update(rec, authedRequest(http.MethodPut, "/stories/10", body, 2, map[string]string{"id": "10"}))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if code, _ := decodeError(t, rec); code != "FORBIDDEN" {
		t.Errorf("error code = %q, want FORBIDDEN", code)
	}
}

func TestStoryHandler_List(t *testing.T) {
	h := newStoryHandler(
		&model.Story{ID: 1, UserID: 1, Title: "one", Content: "aaaaaaaaaa"},
		&model.Story{ID: 2, UserID: 1, Title: "two", Content: "bbbbbbbbbb"},
		&model.Story{ID: 3, UserID: 2, Title: "not mine", Content: "cccccccccc"},
	)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/stories?page=1", nil, 1, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp model.StoryListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2 (only the caller's stories)", resp.Total)
	}
}
