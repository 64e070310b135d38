package service

import (
	"context"
	"fmt"
	"log"

	"socialstories/internal/model"
	"socialstories/internal/queue"
	"socialstories/internal/repository"
)

// StoryService owns the ownership-scoped story lifecycle. Every read and
// mutation of a story checks that the caller is its owner; non-owners get
// ErrNotStoryOwner regardless of the operation.
type StoryService struct {
	repo  repository.StoryRepository
	audit queue.Publisher
}

func NewStoryService(repo repository.StoryRepository, audit queue.Publisher) *StoryService {
	return &StoryService{repo: repo, audit: audit}
}

// Create persists a new story owned by the caller.
func (s *StoryService) Create(ctx context.Context, ownerID int64, req model.StoryRequest) (*model.Story, error) {
	story := &model.Story{
		UserID:      ownerID,
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.IsPublished,
	}

	if err := s.repo.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	story.Pages = model.DecodePages(story.Content)

	log.Printf("[Story] created: %q by user=%d", story.Title, ownerID)
	queue.TryPublish(ctx, s.audit, queue.NewStoryEvent(queue.EventStoryCreated, ownerID, story.ID, story.Title))

	return story, nil
}

// Get fetches a story for its owner. Missing stories are not-found; stories
// owned by someone else are forbidden.
func (s *StoryService) Get(ctx context.Context, storyID, callerID int64) (*model.Story, error) {
	story, err := s.repo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID != callerID {
		return nil, model.ErrNotStoryOwner
	}

	story.Pages = model.DecodePages(story.Content)
	return story, nil
}

// Update edits a story after the same ownership check as Get. The updated
// timestamp refreshes on every successful mutation.
func (s *StoryService) Update(ctx context.Context, storyID, callerID int64, req model.StoryRequest) (*model.Story, error) {
	story, err := s.repo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID != callerID {
		return nil, model.ErrNotStoryOwner
	}

	story.Title = req.Title
	story.Content = req.Content
	story.IsPublished = req.IsPublished

	if err := s.repo.Update(ctx, story); err != nil {
		return nil, fmt.Errorf("update story: %w", err)
	}
	story.Pages = model.DecodePages(story.Content)

	log.Printf("[Story] updated: %q by user=%d", story.Title, callerID)
	queue.TryPublish(ctx, s.audit, queue.NewStoryEvent(queue.EventStoryUpdated, callerID, story.ID, story.Title))

	return story, nil
}

// Delete removes a story. The repository distinguishes not-found from
// not-owner so the handler can answer 404 vs 403.
func (s *StoryService) Delete(ctx context.Context, storyID, callerID int64) error {
	story, err := s.repo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != callerID {
		return model.ErrNotStoryOwner
	}

	if err := s.repo.Delete(ctx, storyID, callerID); err != nil {
		return err
	}

	log.Printf("[Story] deleted: %q by user=%d", story.Title, callerID)
	queue.TryPublish(ctx, s.audit, queue.NewStoryEvent(queue.EventStoryDeleted, callerID, story.ID, story.Title))

	return nil
}

// List returns one page of the caller's stories newest-first with pagination
// metadata. Content is opportunistically deserialized into pages; freeform
// or malformed content yields an empty page list.
func (s *StoryService) List(ctx context.Context, ownerID int64, page, perPage int) (*model.StoryListResponse, error) {
	if page < 1 {
		page = 1
	}

	stories, total, err := s.repo.ListByOwner(ctx, ownerID, page, perPage)
	if err != nil {
		return nil, err
	}

	for i := range stories {
		stories[i].Pages = model.DecodePages(stories[i].Content)
	}

	totalPages := (total + perPage - 1) / perPage

	return &model.StoryListResponse{
		Stories:    stories,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}, nil
}

// Recent returns the caller's newest stories for the home page.
func (s *StoryService) Recent(ctx context.Context, ownerID int64, limit int) ([]model.Story, error) {
	stories, err := s.repo.ListRecentByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	for i := range stories {
		stories[i].Pages = model.DecodePages(stories[i].Content)
	}
	return stories, nil
}
