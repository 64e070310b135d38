package handler

import (
	"context"
	"fmt"
	"time"

	"socialstories/internal/model"
)

// Minimal repository fakes for handler tests. Handlers are exercised through
// real services so the error mapping under test matches production wiring.

type fakeUserRepo struct {
	users map[int64]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	m := map[int64]*model.User{}
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = int64(len(f.users) + 1)
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	return err == nil, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeTokenRepo struct {
	byHash map[string]*model.RefreshToken
	nextID int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: map[string]*model.RefreshToken{}}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	f.nextID++
	token.ID = fmt.Sprintf("token-%d", f.nextID)
	token.CreatedAt = time.Now()
	f.byHash[token.TokenHash] = token
	return nil
}

func (f *fakeTokenRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	if t, ok := f.byHash[tokenHash]; ok {
		return t, nil
	}
	return nil, model.ErrRefreshTokenNotFound
}

func (f *fakeTokenRepo) Revoke(ctx context.Context, id string, replacedBy *string) error {
	now := time.Now()
	for _, t := range f.byHash {
		if t.ID == id {
			t.RevokedAt = &now
			t.ReplacedBy = replacedBy
		}
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	now := time.Now()
	for _, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

type fakeStoryRepo struct {
	stories map[int64]*model.Story
	nextID  int64
}

func newFakeStoryRepo(stories ...*model.Story) *fakeStoryRepo {
	m := map[int64]*model.Story{}
	var maxID int64
	for _, s := range stories {
		m[s.ID] = s
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return &fakeStoryRepo{stories: m, nextID: maxID}
}

func (f *fakeStoryRepo) Create(ctx context.Context, story *model.Story) error {
	f.nextID++
	story.ID = f.nextID
	story.CreatedAt = time.Now()
	story.UpdatedAt = time.Now()
	f.stories[story.ID] = story
	return nil
}

func (f *fakeStoryRepo) GetByID(ctx context.Context, id int64) (*model.Story, error) {
	if s, ok := f.stories[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, model.ErrStoryNotFound
}

func (f *fakeStoryRepo) ListByOwner(ctx context.Context, ownerID int64, page, perPage int) ([]model.Story, int, error) {
	var owned []model.Story
	for _, s := range f.stories {
		if s.UserID == ownerID {
			owned = append(owned, *s)
		}
	}
	return owned, len(owned), nil
}

func (f *fakeStoryRepo) ListRecentByOwner(ctx context.Context, ownerID int64, limit int) ([]model.Story, error) {
	stories, _, err := f.ListByOwner(ctx, ownerID, 1, limit)
	return stories, err
}

func (f *fakeStoryRepo) Update(ctx context.Context, story *model.Story) error {
	f.stories[story.ID] = story
	return nil
}

func (f *fakeStoryRepo) Delete(ctx context.Context, storyID, ownerID int64) error {
	s, ok := f.stories[storyID]
	if !ok {
		return model.ErrStoryNotFound
	}
	if s.UserID != ownerID {
		return model.ErrNotStoryOwner
	}
	delete(f.stories, storyID)
	return nil
}
