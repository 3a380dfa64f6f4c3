package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"quizmaster/internal/config"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator applies the embedded schema to one database.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
}

// NewMigrator returns the migrator for driver.
func NewMigrator(db *sql.DB, driver string, logger *zap.Logger) (Migrator, error) {
	switch driver {
	case config.DriverSQLite:
		src, err := iofs.New(migrationsFS, "migrations/sqlite")
		if err != nil {
			return nil, fmt.Errorf("could not open migration source: %w", err)
		}
		dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("could not create migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, config.DriverSQLite, dbDriver)
		if err != nil {
			return nil, fmt.Errorf("could not create migrator: %w", err)
		}
		return &sqliteMigrator{m: m}, nil
	case config.DriverOracle:
		return &scriptMigrator{db: db, dir: "migrations/oracle", logger: logger}, nil
	}
	return nil, fmt.Errorf("no migrations for driver %q", driver)
}

// Migrate applies every pending up migration.
func Migrate(db *sql.DB, driver string, logger *zap.Logger) error {
	m, err := NewMigrator(db, driver, logger)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		return err
	}
	version, _, err := m.Version()
	if err != nil {
		return err
	}
	logger.Info("Database schema is up to date", zap.Uint("version", version))
	return nil
}

type sqliteMigrator struct {
	m *migrate.Migrate
}

func (s *sqliteMigrator) Up() error {
	if err := s.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	return nil
}

func (s *sqliteMigrator) Down() error {
	if err := s.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not revert migrations: %w", err)
	}
	return nil
}

func (s *sqliteMigrator) Version() (uint, bool, error) {
	v, dirty, err := s.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// scriptMigrator executes the embedded Oracle scripts in name order. Oracle
// has no golang-migrate driver, so the scripts are written to be re-runnable
// and no version table is kept.
type scriptMigrator struct {
	db     *sql.DB
	dir    string
	logger *zap.Logger
}

func (s *scriptMigrator) Up() error   { return s.run(".up.sql", false) }
func (s *scriptMigrator) Down() error { return s.run(".down.sql", true) }

func (s *scriptMigrator) Version() (uint, bool, error) {
	names, err := s.scripts(".up.sql")
	return uint(len(names)), false, err
}

func (s *scriptMigrator) scripts(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, s.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *scriptMigrator) run(suffix string, reverse bool) error {
	names, err := s.scripts(suffix)
	if err != nil {
		return err
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		content, err := fs.ReadFile(migrationsFS, s.dir+"/"+name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		// go-ora executes one statement per call; scripts separate them with "/".
		for _, stmt := range strings.Split(string(content), "\n/\n") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		s.logger.Info("Executed migration", zap.String("file", name))
	}
	return nil
}
