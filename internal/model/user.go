package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// User represents an account that owns stories.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"` // stored lowercase
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`

	// Optional per-user keys for the external integrations. Hidden from
	// JSON responses; the account endpoint reports only whether they are set.
	SerpAPIKey       *string `db:"serpapi_api_key" json:"-"`
	GeminiAPIKey     *string `db:"gemini_api_key" json:"-"`
	GoogleMapsAPIKey *string `db:"google_maps_api_key" json:"-"`

	ProfilePicURL *string `db:"profile_pic_url" json:"profile_pic_url"`
	ProfilePicKey *string `db:"profile_pic_key" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Username and password bounds match the registration form of the original UI.
const (
	MinUsernameLength = 2
	MaxUsernameLength = 20
	MinPasswordLength = 6
	MaxEmailLength    = 120
	MaxAPIKeyLength   = 128
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate returns a field->message map; an empty map means the request is valid.
// Uniqueness is checked separately against the database by the service.
func (r *RegisterRequest) Validate() map[string]string {
	fields := map[string]string{}

	username := strings.TrimSpace(r.Username)
	if username == "" {
		fields["username"] = "Username is required."
	} else if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		fields["username"] = "Username must be between 2 and 20 characters."
	}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		fields["email"] = "Email is required."
	} else if len(email) > MaxEmailLength || !emailPattern.MatchString(email) {
		fields["email"] = "Enter a valid email address."
	}

	if r.Password == "" {
		fields["password"] = "Password is required."
	} else if len(r.Password) < MinPasswordLength {
		fields["password"] = "Password must be at least 6 characters."
	}

	if r.ConfirmPassword != r.Password {
		fields["confirm_password"] = "Passwords must match."
	}

	return fields
}

// LoginRequest is the request body for POST /auth/login. Next carries the
// post-login destination; it is echoed back only when safely relative.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
	Next     string `json:"next,omitempty"`
}

func (r *LoginRequest) Validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = "Email is required."
	}
	if r.Password == "" {
		fields["password"] = "Password is required."
	}
	return fields
}

// UpdateAccountRequest carries the non-file fields of the account form.
// Username and email are required; everything else is optional.
type UpdateAccountRequest struct {
	Username         string
	Email            string
	SerpAPIKey       *string
	GeminiAPIKey     *string
	GoogleMapsAPIKey *string
	Password         string
	ConfirmPassword  string
}

func (r *UpdateAccountRequest) Validate() map[string]string {
	fields := map[string]string{}

	username := strings.TrimSpace(r.Username)
	if username == "" {
		fields["username"] = "Username is required."
	} else if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		fields["username"] = "Username must be between 2 and 20 characters."
	}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		fields["email"] = "Email is required."
	} else if len(email) > MaxEmailLength || !emailPattern.MatchString(email) {
		fields["email"] = "Enter a valid email address."
	}

	for name, key := range map[string]*string{
		"serpapi_api_key":     r.SerpAPIKey,
		"gemini_api_key":      r.GeminiAPIKey,
		"google_maps_api_key": r.GoogleMapsAPIKey,
	} {
		if key != nil && len(*key) > MaxAPIKeyLength {
			fields[name] = "API key is too long."
		}
	}

	if r.Password != "" {
		if len(r.Password) < MinPasswordLength {
			fields["password"] = "Password must be at least 6 characters."
		}
		if r.ConfirmPassword != r.Password {
			fields["confirm_password"] = "Passwords must match."
		}
	}

	return fields
}

// AccountResponse is the account page payload. Keys are reported as
// set/unset flags rather than echoed back.
type AccountResponse struct {
	User          *User `json:"user"`
	HasSerpAPIKey bool  `json:"has_serpapi_api_key"`
	HasGeminiKey  bool  `json:"has_gemini_api_key"`
	HasMapsKey    bool  `json:"has_google_maps_api_key"`
}

// NewAccountResponse builds the account payload for a user.
func NewAccountResponse(u *User) *AccountResponse {
	return &AccountResponse{
		User:          u,
		HasSerpAPIKey: u.SerpAPIKey != nil && *u.SerpAPIKey != "",
		HasGeminiKey:  u.GeminiAPIKey != nil && *u.GeminiAPIKey != "",
		HasMapsKey:    u.GoogleMapsAPIKey != nil && *u.GoogleMapsAPIKey != "",
	}
}

// Profile picture upload constants.
const (
	MaxProfilePicSizeBytes = 5 * 1024 * 1024
	ProfilePicWidth        = 200
	ProfilePicHeight       = 200
	ProfilePicFolder       = "avatars"
	ProfilePicExt          = ".jpg"
	ProfilePicCacheControl = "public, max-age=86400"
	ContentTypeJPEG        = "image/jpeg"
)

// IsAllowedImageType reports whether an uploaded content type is accepted.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// UploadResult is the public URL and storage key of an uploaded object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// User errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already taken")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFileTooLarge       = errors.New("file too large")
	ErrInvalidImageType   = errors.New("invalid image type")
)

// Upload error codes used in HTTP responses.
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
	CodeValidationFailed = "VALIDATION_FAILED"
)
