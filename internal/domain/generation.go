package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Generation is a persisted set of questions created from one subject and
// source text.
type Generation struct {
	ID            string
	OwnerID       string
	Subject       string
	Topic         string
	QuestionCount int
	Questions     []Question
	CreatedAt     time.Time
}

// NewGeneration creates a Generation stamped with the current time. The
// caller assigns the ID.
func NewGeneration(ownerID, subject, topic string, questions []Question) *Generation {
	return &Generation{
		OwnerID:       ownerID,
		Subject:       subject,
		Topic:         topic,
		QuestionCount: len(questions),
		Questions:     questions,
		CreatedAt:     time.Now().UTC(),
	}
}

// Validate validates the generation
func (g *Generation) Validate() error {
	var errs ValidationErrors
	if g.OwnerID == "" {
		errs.Add(NewMissingFieldError("owner_id"))
	}
	if strings.TrimSpace(g.Subject) == "" {
		errs.Add(NewMissingFieldError("subject"))
	}
	if len(g.Questions) == 0 {
		errs.Add(NewValidationError("a generation needs at least one question"))
	}
	if g.QuestionCount != len(g.Questions) {
		errs.Add(NewInvalidFormatError("question_count", "does not match the number of questions"))
	}
	return errs.Err()
}

// ErrGenerationLimitReached is returned by CreateWithinLimit when the owner
// already has as many generations as their limit allows.
var ErrGenerationLimitReached = errors.New("generation limit reached")

// GenerationRepository defines the interface for generation persistence.
// Lookups return (nil, nil) when nothing matches.
type GenerationRepository interface {
	Create(ctx context.Context, generation *Generation) error
	// CreateWithinLimit inserts the generation only while the owner is below
	// their generation limit, checked in the same statement as the insert.
	CreateWithinLimit(ctx context.Context, generation *Generation) error
	GetByID(ctx context.Context, id string) (*Generation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Generation, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}
