package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizmaster/internal/domain"
	"quizmaster/internal/repository/models"
	"quizmaster/internal/util"

	"github.com/jmoiron/sqlx"
)

// ErrUserNotFound is returned by updates that match no row.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `ID, EMAIL, NAME, PASSWORD_HASH, GENERATION_LIMIT, CREATED_AT, UPDATED_AT`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of sqlxUserRepository.
func NewUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

// Create inserts a new user. Emails are stored lower-cased.
func (r *sqlxUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
	          VALUES (:ID, :EMAIL, :NAME, :PASSWORD_HASH, :GENERATION_LIMIT, :CREATED_AT, :UPDATED_AT)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user)); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *sqlxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE EMAIL = ?`)
	return r.getOne(ctx, "email", query, strings.ToLower(strings.TrimSpace(email)))
}

// GetByID retrieves a user by their internal ID.
func (r *sqlxUserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ID = ?`)
	return r.getOne(ctx, "id", query, userID)
}

func (r *sqlxUserRepository) getOne(ctx context.Context, by, query string, arg interface{}) (*domain.User, error) {
	var user models.User
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil for not found
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", by, err)
	}
	return toDomainUser(&user), nil
}

// IncrementGenerationLimit raises the user's generation limit by delta.
func (r *sqlxUserRepository) IncrementGenerationLimit(ctx context.Context, userID string, delta int) error {
	query := r.db.Rebind(`UPDATE users SET GENERATION_LIMIT = GENERATION_LIMIT + ?, UPDATED_AT = ? WHERE ID = ?`)

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update generation limit: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:              m.ID,
		Email:           m.Email,
		Name:            m.Name.String,
		PasswordHash:    m.PasswordHash,
		GenerationLimit: m.GenerationLimit,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:              u.ID,
		Email:           strings.ToLower(strings.TrimSpace(u.Email)),
		Name:            util.StringToNullString(u.Name),
		PasswordHash:    u.PasswordHash,
		GenerationLimit: u.GenerationLimit,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
