package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"socialstories/internal/model"
	"socialstories/internal/queue"
	"socialstories/internal/repository"
)

// UserService handles registration, login and account self-service.
type UserService struct {
	repo  repository.UserRepository
	media *MediaService
	audit queue.Publisher
}

// NewUserService wires the user repository plus the optional media service
// (profile picture uploads) and audit publisher; both may be nil.
func NewUserService(repo repository.UserRepository, media *MediaService, audit queue.Publisher) *UserService {
	return &UserService{repo: repo, media: media, audit: audit}
}

// Register creates a new account. The request is assumed to have passed
// field validation; uniqueness of username and lowercased email is checked
// here against the database.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[User] registered: %s", user.Username)
	queue.TryPublish(ctx, s.audit, queue.NewUserEvent(queue.EventUserRegistered, user.ID, user.Username))

	return user, nil
}

// Login authenticates by lowercased email and password. Inactive accounts
// and unknown emails fail the same way as wrong passwords.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Don't reveal whether the email exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, model.ErrInvalidCredentials
	}

	log.Printf("[User] logged in: %s", user.Username)
	queue.TryPublish(ctx, s.audit, queue.NewUserEvent(queue.EventUserLoggedIn, user.ID, user.Username))

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateAccount applies the account form to the caller's own record.
// Username and email uniqueness is re-checked when they change; the original
// UI skipped that on edit, which let duplicates in through the back door.
// Optional API key fields overwrite only when provided; an empty provided
// value clears the stored key. A non-empty password triggers a re-hash.
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *model.UpdateAccountRequest, pic multipart.File, picHeader *multipart.FileHeader) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username != user.Username {
		exists, err := s.repo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return nil, model.ErrUsernameExists
		}
		user.Username = username
	}

	if email != user.Email {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, model.ErrEmailExists
		}
		user.Email = email
	}

	applyKey(&user.SerpAPIKey, req.SerpAPIKey)
	applyKey(&user.GeminiAPIKey, req.GeminiAPIKey)
	applyKey(&user.GoogleMapsAPIKey, req.GoogleMapsAPIKey)

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if pic != nil {
		if s.media == nil {
			return nil, ErrUploadsDisabled
		}
		upload, err := s.media.UploadProfilePic(ctx, userID, pic, picHeader)
		if err != nil {
			return nil, err
		}
		user.ProfilePicURL = &upload.URL
		user.ProfilePicKey = &upload.Key
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[User] account updated: %s", user.Username)
	queue.TryPublish(ctx, s.audit, queue.NewUserEvent(queue.EventAccountUpdated, user.ID, user.Username))

	return user, nil
}

// applyKey overwrites dst only when the form supplied the field. Supplying
// an empty string clears the key.
func applyKey(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}
