package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Integration errors shared by the proxy services.
var (
	ErrMissingAPIKey   = errors.New("missing API key")
	ErrUploadsDisabled = errors.New("profile picture uploads are not configured")
)

// ImageSearcher finds image URLs for a query. The concrete implementation
// talks to SerpAPI's Google Images endpoint; tests substitute a fake.
type ImageSearcher interface {
	// Search returns image URLs for the query, best match first.
	Search(ctx context.Context, query, apiKey string) ([]string, error)
	// First returns the single best image URL, or "" when there is none.
	First(ctx context.Context, query, apiKey string) (string, error)
}

const (
	serpAPIBaseURL = "https://serpapi.com/search.json"

	// Single best-effort attempt with a fixed timeout; no retries.
	imageSearchTimeout = 10 * time.Second
)

// SerpAPIService implements ImageSearcher against serpapi.com.
type SerpAPIService struct {
	httpClient *http.Client
	baseURL    string
}

func NewSerpAPIService() *SerpAPIService {
	return &SerpAPIService{
		httpClient: &http.Client{Timeout: imageSearchTimeout},
		baseURL:    serpAPIBaseURL,
	}
}

// NewSerpAPIServiceWithBaseURL is used by tests to point at a local server.
func NewSerpAPIServiceWithBaseURL(baseURL string) *SerpAPIService {
	s := NewSerpAPIService()
	s.baseURL = baseURL
	return s
}

// serpImageResult is the slice element of SerpAPI's images_results field.
type serpImageResult struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
}

type serpResponse struct {
	ImagesResults []serpImageResult `json:"images_results"`
}

// Search calls the image-search endpoint and collects the original URL of
// each result, falling back to its thumbnail.
func (s *SerpAPIService) Search(ctx context.Context, query, apiKey string) ([]string, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("%s?q=%s&tbm=isch&api_key=%s",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build image search request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	var parsed serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode image search response: %w", err)
	}

	images := make([]string, 0, len(parsed.ImagesResults))
	for _, img := range parsed.ImagesResults {
		u := img.Original
		if u == "" {
			u = img.Thumbnail
		}
		if u != "" {
			images = append(images, u)
		}
	}

	return images, nil
}

// First returns the best single match or "" when the search found nothing.
func (s *SerpAPIService) First(ctx context.Context, query, apiKey string) (string, error) {
	images, err := s.Search(ctx, query, apiKey)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", nil
	}
	return images[0], nil
}
