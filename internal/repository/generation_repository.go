package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizmaster/internal/config"
	"quizmaster/internal/domain"
	"quizmaster/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const generationColumns = `ID, OWNER_ID, SUBJECT, TOPIC, QUESTION_COUNT, QUIZ_DATA, CREATED_AT`

// generationRepository implements domain.GenerationRepository using sqlx.
type generationRepository struct {
	db *sqlx.DB
}

// NewGenerationRepository creates a new generation repository
func NewGenerationRepository(db *sqlx.DB) domain.GenerationRepository {
	return &generationRepository{db: db}
}

// Create inserts the generation and its questions in one statement.
func (r *generationRepository) Create(ctx context.Context, generation *domain.Generation) error {
	query := `INSERT INTO generations (` + generationColumns + `)
	          VALUES (:ID, :OWNER_ID, :SUBJECT, :TOPIC, :QUESTION_COUNT, :QUIZ_DATA, :CREATED_AT)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainGeneration(generation)); err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}
	return nil
}

// CreateWithinLimit locks the owner's row, then inserts the generation only
// when the owner's count is below GENERATION_LIMIT. Run it inside
// TransactionManager.WithTransaction so the lock covers the insert.
func (r *generationRepository) CreateWithinLimit(ctx context.Context, generation *domain.Generation) error {
	exec := GetExecutor(ctx, r.db)

	lock := r.db.Rebind(`UPDATE users SET UPDATED_AT = UPDATED_AT WHERE ID = ?`)
	if _, err := exec.ExecContext(ctx, lock, generation.OwnerID); err != nil {
		return fmt.Errorf("failed to lock generation owner: %w", err)
	}

	query := `INSERT INTO generations (` + generationColumns + `)
	          SELECT :ID, :OWNER_ID, :SUBJECT, :TOPIC, :QUESTION_COUNT, :QUIZ_DATA, :CREATED_AT` + r.fromDual() + `
	          WHERE (SELECT COUNT(*) FROM generations WHERE OWNER_ID = :OWNER_ID)
	              < (SELECT GENERATION_LIMIT FROM users WHERE ID = :OWNER_ID)`

	result, err := exec.NamedExecContext(ctx, query, fromDomainGeneration(generation))
	if err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrGenerationLimitReached
	}
	return nil
}

// fromDual completes a FROM-less SELECT on Oracle.
func (r *generationRepository) fromDual() string {
	if r.db.DriverName() == config.DriverOracle {
		return " FROM DUAL"
	}
	return ""
}

// GetByID returns (nil, nil) when no generation has the ID.
func (r *generationRepository) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	var row models.Generation
	query := r.db.Rebind(`SELECT ` + generationColumns + ` FROM generations WHERE ID = ?`)

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generation by id: %w", err)
	}
	return toDomainGeneration(&row), nil
}

// ListByOwner returns the owner's generations, newest first.
func (r *generationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Generation, error) {
	var rows []models.Generation
	query := r.db.Rebind(`SELECT ` + generationColumns + ` FROM generations
	          WHERE OWNER_ID = ? ORDER BY CREATED_AT DESC, ID DESC`)

	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}

	generations := make([]*domain.Generation, 0, len(rows))
	for i := range rows {
		generations = append(generations, toDomainGeneration(&rows[i]))
	}
	return generations, nil
}

// CountByOwner counts the owner's generations for quota checks.
func (r *generationRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM generations WHERE OWNER_ID = ?`)

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &count, query, ownerID); err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return count, nil
}

func toDomainGeneration(m *models.Generation) *domain.Generation {
	if m == nil {
		return nil
	}
	return &domain.Generation{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Subject:       m.Subject,
		Topic:         m.Topic,
		QuestionCount: m.QuestionCount,
		Questions:     []domain.Question(m.QuizData),
		CreatedAt:     m.CreatedAt,
	}
}

func fromDomainGeneration(g *domain.Generation) *models.Generation {
	if g == nil {
		return nil
	}
	return &models.Generation{
		ID:            g.ID,
		OwnerID:       g.OwnerID,
		Subject:       g.Subject,
		Topic:         g.Topic,
		QuestionCount: g.QuestionCount,
		QuizData:      models.QuestionList(g.Questions),
		CreatedAt:     g.CreatedAt,
	}
}
