package model

import "strings"

// Contact form bounds.
const (
	MaxContactNameLength    = 64
	MinContactMessageLength = 10
	MaxContactMessageLength = 2000
)

// ContactRequest is the request body for POST /contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r *ContactRequest) Validate() map[string]string {
	fields := map[string]string{}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		fields["name"] = "Name is required."
	} else if len(name) > MaxContactNameLength {
		fields["name"] = "Name must be at most 64 characters."
	}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		fields["email"] = "Email is required."
	} else if len(email) > MaxEmailLength || !emailPattern.MatchString(email) {
		fields["email"] = "Enter a valid email address."
	}

	msg := strings.TrimSpace(r.Message)
	if len(msg) < MinContactMessageLength || len(msg) > MaxContactMessageLength {
		fields["message"] = "Message must be between 10 and 2000 characters."
	}

	return fields
}
