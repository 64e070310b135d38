package repository

import (
	"context"
	"time"

	"socialstories/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
}

type StoryRepository interface {
	Create(ctx context.Context, story *model.Story) error
	GetByID(ctx context.Context, id int64) (*model.Story, error)
	// ListByOwner returns one page of the owner's stories newest-first plus
	// the total count for pagination metadata.
	ListByOwner(ctx context.Context, ownerID int64, page, perPage int) ([]model.Story, int, error)
	ListRecentByOwner(ctx context.Context, ownerID int64, limit int) ([]model.Story, error)
	Update(ctx context.Context, story *model.Story) error
	Delete(ctx context.Context, storyID, ownerID int64) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
