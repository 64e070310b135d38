package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestGeminiService_Chat_MissingKey(t *testing.T) {
	svc := NewGeminiService("")

	_, err := svc.Chat(context.Background(), "write me a story", "")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %T, want *UpstreamError", err)
	}
	if upstream.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", upstream.Status, http.StatusInternalServerError)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "timeout maps to gateway timeout",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "anything else is a bad gateway",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := classifyGeminiError(tt.err)
			if upstream.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", upstream.Status, tt.wantStatus)
			}
		})
	}
}
