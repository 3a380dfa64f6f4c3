package domain

import (
	"context"
	"time"
)

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// NewContactMessage creates a ContactMessage stamped with the current time.
// The caller assigns the ID.
func NewContactMessage(name, email, message string) *ContactMessage {
	return &ContactMessage{
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate validates the contact message
func (m *ContactMessage) Validate() error {
	var errs ValidationErrors
	if m.Name == "" {
		errs.Add(NewMissingFieldError("name"))
	}
	if m.Email == "" {
		errs.Add(NewMissingFieldError("email"))
	}
	if m.Message == "" {
		errs.Add(NewMissingFieldError("message"))
	}
	return errs.Err()
}

// ContactMessageRepository stores contact form submissions.
type ContactMessageRepository interface {
	Create(ctx context.Context, msg *ContactMessage) error
}
