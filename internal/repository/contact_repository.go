package repository

import (
	"context"
	"fmt"
	"strings"

	"quizmaster/internal/domain"
	"quizmaster/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxContactMessageRepository implements domain.ContactMessageRepository using sqlx.
type sqlxContactMessageRepository struct {
	db *sqlx.DB
}

// NewContactMessageRepository creates a new instance of sqlxContactMessageRepository.
func NewContactMessageRepository(db *sqlx.DB) domain.ContactMessageRepository {
	return &sqlxContactMessageRepository{db: db}
}

// Create stores a contact message. The sender's email is stored lower-cased.
func (r *sqlxContactMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `INSERT INTO contact_messages (ID, NAME, EMAIL, MESSAGE, CREATED_AT)
	          VALUES (:ID, :NAME, :EMAIL, :MESSAGE, :CREATED_AT)`

	row := &models.ContactMessage{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     strings.ToLower(strings.TrimSpace(msg.Email)),
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}
