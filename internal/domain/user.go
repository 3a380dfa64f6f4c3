package domain

import (
	"context"
	"time"
)

// User represents a domain user object
type User struct {
	ID              string
	Email           string
	Name            string
	PasswordHash    string
	GenerationLimit int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser creates a new User instance
func NewUser(email, name, passwordHash string, generationLimit int) *User {
	now := time.Now().UTC()
	return &User{
		Email:           email,
		Name:            name,
		PasswordHash:    passwordHash,
		GenerationLimit: generationLimit,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if u.Email == "" {
		errs.Add(NewMissingFieldError("email"))
	}
	if u.PasswordHash == "" {
		errs.Add(NewMissingFieldError("password_hash"))
	}
	if u.GenerationLimit < 0 {
		errs.Add(NewInvalidFormatError("generation_limit", "must not be negative"))
	}
	return errs.Err()
}

// UserRepository defines the interface for user data persistence.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	// IncrementGenerationLimit adds delta to the stored limit in one
	// statement.
	IncrementGenerationLimit(ctx context.Context, userID string, delta int) error
}
