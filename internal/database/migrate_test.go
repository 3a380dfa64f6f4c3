package database_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizmaster/internal/config"
	"quizmaster/internal/database"
	"quizmaster/internal/domain"
	"quizmaster/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect(config.DriverSQLite, "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_SQLiteUpAndDown(t *testing.T) {
	db := openMemoryDB(t)
	logger := zap.NewNop()

	require.NoError(t, database.Migrate(db.DB, config.DriverSQLite, logger))
	// a second run is a no-op
	require.NoError(t, database.Migrate(db.DB, config.DriverSQLite, logger))

	m, err := database.NewMigrator(db.DB, config.DriverSQLite, logger)
	require.NoError(t, err)
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	var tables int
	require.NoError(t, db.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'generations', 'contact_messages')`))
	assert.Equal(t, 0, tables)
}

func TestMigrate_UnknownDriver(t *testing.T) {
	db := openMemoryDB(t)
	_, err := database.NewMigrator(db.DB, "postgres", zap.NewNop())
	assert.Error(t, err)
}

func TestRepositories_AgainstSQLite(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, database.Migrate(db.DB, config.DriverSQLite, zap.NewNop()))
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	generations := repository.NewGenerationRepository(db)

	user := domain.NewUser("Bob@Example.com", "Bob", "hash", 5)
	user.ID = "01HZX00000000000000000USER"
	require.NoError(t, users.Create(ctx, user))

	found, err := users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, users.IncrementGenerationLimit(ctx, user.ID, 5))
		}()
	}
	wg.Wait()
	found, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	// no increment is lost
	assert.Equal(t, 55, found.GenerationLimit)

	questions := []domain.Question{{
		Question: "2+2?",
		Options: map[domain.OptionKey]string{
			domain.OptionA: "3", domain.OptionB: "4", domain.OptionC: "5", domain.OptionD: "6",
		},
		CorrectAnswer: domain.OptionB,
	}}
	older := domain.NewGeneration(user.ID, "Math", "Addition", questions)
	older.ID = "gen-1"
	older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	newer := domain.NewGeneration(user.ID, "Math", "More addition", questions)
	newer.ID = "gen-2"
	newer.CreatedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, generations.Create(ctx, older))
	require.NoError(t, generations.Create(ctx, newer))

	list, err := generations.ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "gen-2", list[0].ID)
	assert.Equal(t, questions, list[1].Questions)

	count, err := generations.CountByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTransactionManager_AgainstSQLite(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, database.Migrate(db.DB, config.DriverSQLite, zap.NewNop()))
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	rolledBack := domain.NewUser("gone@example.com", "", "hash", 5)
	rolledBack.ID = "01HZX0000000000000000GONE0"
	errBoom := errors.New("boom")
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, users.Create(txCtx, rolledBack))
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	found, err := users.GetByEmail(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)

	kept := domain.NewUser("kept@example.com", "", "hash", 5)
	kept.ID = "01HZX0000000000000000KEPT0"
	require.NoError(t, txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return users.Create(txCtx, kept)
	}))
	found, err = users.GetByEmail(ctx, "kept@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, kept.ID, found.ID)
}

func TestCreateWithinLimit_AgainstSQLite(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, database.Migrate(db.DB, config.DriverSQLite, zap.NewNop()))
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	generations := repository.NewGenerationRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	user := domain.NewUser("carol@example.com", "", "hash", 1)
	user.ID = "01HZX000000000000000CAROL0"
	require.NoError(t, users.Create(ctx, user))

	questions := []domain.Question{{
		Question: "2+2?",
		Options: map[domain.OptionKey]string{
			domain.OptionA: "3", domain.OptionB: "4", domain.OptionC: "5", domain.OptionD: "6",
		},
		CorrectAnswer: domain.OptionB,
	}}
	create := func(id string) error {
		g := domain.NewGeneration(user.ID, "Math", "Addition", questions)
		g.ID = id
		return txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return generations.CreateWithinLimit(txCtx, g)
		})
	}

	require.NoError(t, create("gen-1"))
	assert.ErrorIs(t, create("gen-2"), domain.ErrGenerationLimitReached)

	require.NoError(t, users.IncrementGenerationLimit(ctx, user.ID, 1))
	require.NoError(t, create("gen-3"))

	count, err := generations.CountByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestContactMessageRepository_AgainstSQLite(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, database.Migrate(db.DB, config.DriverSQLite, zap.NewNop()))

	msg := domain.NewContactMessage("Dana", "Dana@Example.com", "Please add chemistry.")
	msg.ID = "01HZX00000000000000000MSG1"
	require.NoError(t, repository.NewContactMessageRepository(db).Create(context.Background(), msg))

	var stored struct {
		Email   string `db:"EMAIL"`
		Message string `db:"MESSAGE"`
	}
	require.NoError(t, db.Get(&stored, `SELECT EMAIL, MESSAGE FROM contact_messages WHERE ID = ?`, msg.ID))
	assert.Equal(t, "dana@example.com", stored.Email)
	assert.Equal(t, "Please add chemistry.", stored.Message)
}
