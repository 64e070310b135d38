package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	geminiModel   = "gemini-2.0-flash"
	geminiTimeout = 20 * time.Second
)

// ChatResult is the assistant proxy's answer. Type is "text" or "image";
// image answers carry a data URI in Content.
type ChatResult struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// UpstreamError carries the HTTP status a failed integration call should be
// reported with (500 missing credential or unknown failure, 502 bad upstream
// answer, 504 timeout).
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

// GeminiService proxies prompts to the Gemini API. A fresh client is built
// per call because the key may come from the caller's account rather than
// server configuration.
type GeminiService struct {
	defaultKey string
}

// NewGeminiService uses defaultKey when the caller has no key of their own;
// it may be empty.
func NewGeminiService(defaultKey string) *GeminiService {
	return &GeminiService{defaultKey: defaultKey}
}

// Chat sends the prompt and classifies the answer as text or image. The
// caller's key wins over the server default.
func (s *GeminiService) Chat(ctx context.Context, prompt, apiKey string) (*ChatResult, error) {
	if apiKey == "" {
		apiKey = s.defaultKey
	}
	if apiKey == "" {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Message: "Gemini API key is missing or invalid."}
	}

	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Gemini client error: %v", err)}
	}

	resp, err := client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), nil)
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	content := resp.Text()
	if content == "" {
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: "No response from Gemini."}
	}

	if strings.HasPrefix(strings.TrimSpace(content), "data:image/") {
		return &ChatResult{Type: "image", Content: content}, nil
	}
	return &ChatResult{Type: "text", Content: content}, nil
}

func classifyGeminiError(err error) *UpstreamError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Status: http.StatusGatewayTimeout, Message: "Gemini API request timed out."}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &UpstreamError{Status: apiErr.Code, Message: fmt.Sprintf("Gemini API error: %s", apiErr.Message)}
	}

	log.Printf("[Gemini] request failed: %v", err)
	return &UpstreamError{Status: http.StatusBadGateway, Message: fmt.Sprintf("Gemini API error: %v", err)}
}
