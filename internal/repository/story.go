package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialstories/internal/model"
)

type storyRepository struct {
	db *sqlx.DB
}

func NewStoryRepository(db *sqlx.DB) StoryRepository {
	return &storyRepository{db: db}
}

const storyColumns = `id, user_id, title, content, is_published, created_at, updated_at`

// Create inserts a new story for its owner.
func (r *storyRepository) Create(ctx context.Context, s *model.Story) error {
	query := `
		INSERT INTO stories (user_id, title, content, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.UserID,
		s.Title,
		s.Content,
		s.IsPublished,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert story: %w", err)
	}

	return nil
}

// GetByID retrieves a story without any ownership filter; the service layer
// decides between not-found and forbidden.
func (r *storyRepository) GetByID(ctx context.Context, id int64) (*model.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`

	var s model.Story
	err := r.db.GetContext(ctx, &s, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrStoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get story: %w", err)
	}

	return &s, nil
}

// ListByOwner returns one page of the owner's stories newest-first plus the
// total count. Page numbers start at 1; out-of-range pages return an empty
// slice rather than an error.
func (r *storyRepository) ListByOwner(ctx context.Context, ownerID int64, page, perPage int) ([]model.Story, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM stories WHERE user_id = $1`, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("count stories: %w", err)
	}

	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	stories := []model.Story{}
	err = r.db.SelectContext(ctx, &stories, query, ownerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list stories: %w", err)
	}

	return stories, total, nil
}

// ListRecentByOwner returns the owner's newest stories for the home page.
func (r *storyRepository) ListRecentByOwner(ctx context.Context, ownerID int64, limit int) ([]model.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	stories := []model.Story{}
	err := r.db.SelectContext(ctx, &stories, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent stories: %w", err)
	}

	return stories, nil
}

// Update persists title, content and published flag and refreshes updated_at.
func (r *storyRepository) Update(ctx context.Context, s *model.Story) error {
	query := `
		UPDATE stories
		SET title = $2, content = $3, is_published = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, s.ID, s.Title, s.Content, s.IsPublished).Scan(&s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.ErrStoryNotFound
	}
	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}

	return nil
}

// Delete removes a story, scoped to its owner. When no row is deleted the
// story either does not exist or belongs to another user.
func (r *storyRepository) Delete(ctx context.Context, storyID, ownerID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1 AND user_id = $2`, storyID, ownerID)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM stories WHERE id = $1)`, storyID); err != nil {
			return fmt.Errorf("check story exists: %w", err)
		}
		if exists {
			return model.ErrNotStoryOwner
		}
		return model.ErrStoryNotFound
	}

	return nil
}
