// Command migrate applies or rolls back the database schema.
//
//	migrate up | down | version
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"quizmaster/internal/config"
	"quizmaster/internal/database"
	"quizmaster/internal/logger"

	"go.uber.org/zap"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [up|down|version]\n", os.Args[0])
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.Open(cfg, l)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	m, err := database.NewMigrator(db.DB, cfg.DB.Driver, l)
	if err != nil {
		l.Fatal("Failed to create migrator", zap.Error(err))
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = m.Version()
		if err == nil {
			fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
	l.Info("Migration finished", zap.String("command", command))
}
