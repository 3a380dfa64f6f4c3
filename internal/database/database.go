package database

import (
	"fmt"

	"quizmaster/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	_ "github.com/sijms/go-ora/v2"  // Oracle driver
	"go.uber.org/zap"
)

func init() {
	// go-ora only understands :name placeholders.
	sqlx.BindDriver(config.DriverOracle, sqlx.NAMED)
}

// Open connects to the configured database and verifies the connection.
func Open(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.Driver == config.DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}

	logger.Info("Connected to database", zap.String("driver", cfg.DB.Driver))
	return db, nil
}
