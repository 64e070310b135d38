package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"socialstories/internal/httputil"
	"socialstories/internal/model"
	"socialstories/internal/service"
)

// ContactHandler forwards contact-form submissions to the site admin.
type ContactHandler struct {
	mail service.MailSender
}

// NewContactHandler takes a nil-able sender; nil means mail is disabled.
func NewContactHandler(mail service.MailSender) *ContactHandler {
	return &ContactHandler{mail: mail}
}

// Send handles the contact form
// POST /contact
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		httputil.WriteValidationError(w, model.CodeValidationFailed, fields)
		return
	}

	if h.mail == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, httputil.ErrCodeInternal, "Contact mail is not available")
		return
	}

	if err := h.mail.SendContact(r.Context(), req.Name, req.Email, "Message from the contact form", req.Message); err != nil {
		log.Printf("[Contact] send failed: %v", err)
		httputil.WriteInternalError(w, "Failed to send your message. Please try again later.")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Your message has been sent. Thank you!",
	})
}
