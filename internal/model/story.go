package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Story is a user-owned social story. Content is either freeform text or a
// JSON-encoded ordered page sequence; both representations are tolerated.
type Story struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Pages is derived from Content at read time; never persisted directly.
	Pages []StoryPage `json:"pages"`
}

// StoryPage is a single page of a structured story.
type StoryPage struct {
	Text  string `json:"text"`
	Image string `json:"img,omitempty"`
}

// DecodePages deserializes a story's content into its page sequence.
// Freeform or malformed content yields an empty slice, never an error;
// callers treat "no pages" the same as unstructured content.
func DecodePages(content string) []StoryPage {
	if strings.TrimSpace(content) == "" {
		return []StoryPage{}
	}
	var pages []StoryPage
	if err := json.Unmarshal([]byte(content), &pages); err != nil {
		return []StoryPage{}
	}
	return pages
}

// Title/content bounds from the story form of the original UI.
const (
	MaxStoryTitleLength   = 150
	MinStoryContentLength = 10
)

// StoryRequest is the request body for creating or editing a story.
type StoryRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPublished bool   `json:"is_published"`
}

func (r *StoryRequest) Validate() map[string]string {
	fields := map[string]string{}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		fields["title"] = "Title is required."
	} else if len(title) > MaxStoryTitleLength {
		fields["title"] = "Title must be between 1 and 150 characters."
	}

	if len(r.Content) < MinStoryContentLength {
		fields["content"] = "Content must be at least 10 characters."
	}

	return fields
}

// StoryListResponse is the paginated story list payload.
type StoryListResponse struct {
	Stories    []Story `json:"stories"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
}

// Story errors.
var (
	ErrStoryNotFound = errors.New("story not found")
	ErrNotStoryOwner = errors.New("not the owner of this story")
)
