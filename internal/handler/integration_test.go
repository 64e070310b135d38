package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialstories/internal/config"
	"socialstories/internal/model"
	"socialstories/internal/service"
	"socialstories/internal/transport/http/middleware"
)

type stubSearcher struct {
	images []string
	err    error
}

func (s *stubSearcher) Search(ctx context.Context, query, apiKey string) ([]string, error) {
	return s.images, s.err
}

func (s *stubSearcher) First(ctx context.Context, query, apiKey string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if len(s.images) == 0 {
		return "", nil
	}
	return s.images[0], nil
}

func newIntegrationHandler(searcher service.ImageSearcher, userRepo *fakeUserRepo, cfg *config.Config) *IntegrationHandler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	userService := service.NewUserService(userRepo, nil, nil)
	return NewIntegrationHandler(searcher, service.NewGeminiService(cfg.GeminiAPIKey), userService, cfg)
}

// Without any key configured, the proxy answers 500 with the error payload
// the editor renders, keeping the images list present.
func TestIntegrationHandler_ImageSearch_MissingKey(t *testing.T) {
	h := newIntegrationHandler(&stubSearcher{}, newFakeUserRepo(), nil)

	req := httptest.NewRequest(http.MethodGet, "/stories/api/serpapi_image_search?query=cat", nil)
	rec := httptest.NewRecorder()
	h.ImageSearch(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var resp struct {
		Error  string   `json:"error"`
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected error message in body")
	}
	if resp.Images == nil {
		t.Error("images list must be present even on failure")
	}
}

func TestIntegrationHandler_ImageSearch_EmptyQuery(t *testing.T) {
	h := newIntegrationHandler(&stubSearcher{}, newFakeUserRepo(), nil)

	req := httptest.NewRequest(http.MethodGet, "/stories/api/serpapi_image_search", nil)
	rec := httptest.NewRecorder()
	h.ImageSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Images) != 0 {
		t.Errorf("images = %v, want empty", resp.Images)
	}
}

// A logged-in user's stored key takes precedence over the missing server key.
func TestIntegrationHandler_ImageSearch_UserKey(t *testing.T) {
	key := "user-key"
	userRepo := newFakeUserRepo(&model.User{ID: 1, Username: "alice", SerpAPIKey: &key, IsActive: true})
	h := newIntegrationHandler(&stubSearcher{images: []string{"https://img.example/cat.jpg"}}, userRepo, nil)

	req := httptest.NewRequest(http.MethodGet, "/stories/api/serpapi_image_search?query=cat", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, int64(1)))
	rec := httptest.NewRecorder()
	h.ImageSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, http.StatusOK, rec.Body)
	}
	var resp struct {
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Images) != 1 {
		t.Errorf("images = %v, want one result", resp.Images)
	}
}

func TestIntegrationHandler_TemplateImage(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		searcher     *stubSearcher
		serverKey    string
		wantStatus   int
		wantFallback bool
		wantURL      string
	}{
		{
			name:         "empty query falls back immediately",
			query:        "",
			searcher:     &stubSearcher{},
			serverKey:    "key",
			wantStatus:   http.StatusOK,
			wantFallback: true,
			wantURL:      "",
		},
		{
			name:         "missing key is an error with fallback flag",
			query:        "morning",
			searcher:     &stubSearcher{},
			serverKey:    "",
			wantStatus:   http.StatusInternalServerError,
			wantFallback: true,
		},
		{
			name:         "hit returns the found url",
			query:        "morning",
			searcher:     &stubSearcher{images: []string{"https://img.example/m.jpg"}},
			serverKey:    "key",
			wantStatus:   http.StatusOK,
			wantFallback: false,
			wantURL:      "https://img.example/m.jpg",
		},
		{
			name:         "no results falls back to the placeholder",
			query:        "morning",
			searcher:     &stubSearcher{},
			serverKey:    "key",
			wantStatus:   http.StatusOK,
			wantFallback: true,
			wantURL:      model.TemplatePlaceholderImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{SerpAPIKey: tt.serverKey}
			h := newIntegrationHandler(tt.searcher, newFakeUserRepo(), cfg)

			req := httptest.NewRequest(http.MethodGet, "/stories/api/template_image?query="+tt.query, nil)
			rec := httptest.NewRecorder()
			h.TemplateImage(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body)
			}

			var resp struct {
				URL      string `json:"url"`
				Fallback bool   `json:"fallback"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Fallback != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", resp.Fallback, tt.wantFallback)
			}
			if tt.wantURL != "" && resp.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", resp.URL, tt.wantURL)
			}
		})
	}
}

func TestIntegrationHandler_GeminiChat_BadRequests(t *testing.T) {
	h := newIntegrationHandler(&stubSearcher{}, newFakeUserRepo(), nil)

	tests := []struct {
		name string
		body []byte
	}{
		{name: "no json", body: []byte("not json at all")},
		{name: "missing prompt", body: []byte(`{"prompt":""}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/stories/gemini/chat", bytes.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.GeminiChat(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var resp struct {
				Type    string `json:"type"`
				Content string `json:"content"`
				Status  int    `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Type != "error" {
				t.Errorf("type = %q, want error", resp.Type)
			}
			if resp.Status != http.StatusBadRequest {
				t.Errorf("status field = %d, want %d", resp.Status, http.StatusBadRequest)
			}
		})
	}
}

func TestIntegrationHandler_GeminiChat_MissingKey(t *testing.T) {
	h := newIntegrationHandler(&stubSearcher{}, newFakeUserRepo(), nil)

	req := httptest.NewRequest(http.MethodPost, "/stories/gemini/chat", bytes.NewReader([]byte(`{"prompt":"write a story"}`)))
	rec := httptest.NewRecorder()
	h.GeminiChat(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, http.StatusInternalServerError, rec.Body)
	}

	var resp struct {
		Type   string `json:"type"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("type = %q, want error", resp.Type)
	}
}
