package handler

import (
	"errors"
	"net/http"
	"strings"

	"socialstories/internal/config"
	"socialstories/internal/httputil"
	"socialstories/internal/model"
	"socialstories/internal/service"
	"socialstories/internal/transport/http/middleware"
)

// AccountHandler serves account self-service endpoints.
type AccountHandler struct {
	userService *service.UserService
	config      *config.Config
}

func NewAccountHandler(userService *service.UserService, cfg *config.Config) *AccountHandler {
	return &AccountHandler{
		userService: userService,
		config:      cfg,
	}
}

// Me returns the authenticated caller's account payload
// GET /account
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get account")
		return
	}

	h.applyDefaultPic(user)
	httputil.WriteJSON(w, http.StatusOK, model.NewAccountResponse(user))
}

// Update handles the multipart account form with optional profile picture
// PUT /account
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	maxFormSize := int64(model.MaxProfilePicSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Profile picture exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.UpdateAccountRequest{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),

		// Key fields are applied only when the form actually sent them;
		// sending an empty value clears the stored key.
		SerpAPIKey:       formOptional(r, "serpapi_api_key"),
		GeminiAPIKey:     formOptional(r, "gemini_api_key"),
		GoogleMapsAPIKey: formOptional(r, "google_maps_api_key"),
	}

	if fields := req.Validate(); len(fields) > 0 {
		httputil.WriteValidationError(w, model.CodeValidationFailed, fields)
		return
	}

	file, header, err := r.FormFile("profile_pic")
	if err == nil {
		defer file.Close()
	} else if err != http.ErrMissingFile {
		httputil.WriteBadRequest(w, "Invalid profile picture upload")
		return
	} else {
		file = nil
		header = nil
	}

	user, err := h.userService.UpdateAccount(r.Context(), userID, &req, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username already taken. Please choose a different one.")
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already registered. Please use a different one.")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Profile picture exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		case errors.Is(err, service.ErrUploadsDisabled):
			httputil.WriteError(w, http.StatusServiceUnavailable, httputil.ErrCodeInternal, "Profile picture uploads are not available")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			httputil.WriteInternalError(w, "Failed to update account")
		}
		return
	}

	h.applyDefaultPic(user)
	httputil.WriteJSON(w, http.StatusOK, model.NewAccountResponse(user))
}

// applyDefaultPic fills in the shared placeholder when the user never
// uploaded a picture.
func (h *AccountHandler) applyDefaultPic(user *model.User) {
	if user.ProfilePicURL == nil || *user.ProfilePicURL == "" {
		if h.config.DefaultProfilePicURL != "" {
			user.ProfilePicURL = &h.config.DefaultProfilePicURL
		}
	}
}

// formOptional returns nil when the multipart form did not include the field
// at all, distinguishing "keep" from "clear".
func formOptional(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
