// Command seed_initial_data creates a demo account with ready-made quizzes,
// so the API can be explored without an AI provider key.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"quizmaster/cmd/seed_initial_data/internal/seedmodels"
	"quizmaster/internal/config"
	"quizmaster/internal/database"
	"quizmaster/internal/domain"
	"quizmaster/internal/logger"
	"quizmaster/internal/repository"
	"quizmaster/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// errAlreadySeeded stops the seeder when the demo account exists.
var errAlreadySeeded = errors.New("demo account already exists")

func main() {
	seedFilePath := flag.String("file", "config/seed/demo_generations.json", "path to the JSON seed file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	seed, err := readSeedFile(*seedFilePath)
	if err != nil {
		l.Fatal("Failed to read seed file", zap.String("path", *seedFilePath), zap.Error(err))
	}

	db, err := database.Open(cfg, l)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db.DB, cfg.DB.Driver, l); err != nil {
			l.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	s := &seeder{
		tx:          repository.NewTransactionManagerAdapter(db),
		users:       repository.NewUserRepository(db),
		generations: repository.NewGenerationRepository(db),
		limit:       cfg.Quiz.DefaultGenerationLimit,
		cost:        bcrypt.DefaultCost,
		log:         l,
	}
	err = s.run(context.Background(), seed)
	switch {
	case errors.Is(err, errAlreadySeeded):
		l.Info("Nothing to seed", zap.String("email", seed.User.Email))
	case err != nil:
		l.Fatal("Seeding failed, transaction rolled back", zap.Error(err))
	default:
		l.Info("Initial data seeding completed", zap.Int("generations", len(seed.Generations)))
	}
}

func readSeedFile(path string) (*seedmodels.SeedFile, error) {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed seedmodels.SeedFile
	if err := json.Unmarshal(byteValue, &seed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed data: %w", err)
	}
	return &seed, nil
}

type seeder struct {
	tx          domain.TransactionManager
	users       domain.UserRepository
	generations domain.GenerationRepository
	limit       int
	cost        int
	log         *zap.Logger
}

// run creates the demo user and every generation in one transaction.
func (s *seeder) run(ctx context.Context, seed *seedmodels.SeedFile) error {
	existing, err := s.users.GetByEmail(ctx, seed.User.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errAlreadySeeded
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.User.Password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	limit := s.limit
	if len(seed.Generations) > limit {
		limit = len(seed.Generations)
	}
	user := domain.NewUser(seed.User.Email, seed.User.Name, string(hash), limit)
	user.ID = util.NewULID()
	if err := user.Validate(); err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return err
		}
		s.log.Info("Created demo user", zap.String("id", user.ID), zap.String("email", user.Email))

		for i, sg := range seed.Generations {
			for j := range sg.Questions {
				if err := sg.Questions[j].Validate(); err != nil {
					return fmt.Errorf("generation %d question %d: %w", i+1, j+1, err)
				}
			}
			generation := domain.NewGeneration(user.ID, sg.Subject, sg.Topic, sg.Questions)
			generation.ID = util.NewULID()
			if err := generation.Validate(); err != nil {
				return fmt.Errorf("generation %d: %w", i+1, err)
			}
			if err := s.generations.Create(txCtx, generation); err != nil {
				return err
			}
			s.log.Info("Created generation", zap.String("id", generation.ID), zap.String("subject", generation.Subject))
		}
		return nil
	})
}
