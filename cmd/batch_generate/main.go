// Command batch_generate creates one quiz per text file for an existing
// account, going through the same quota and AI pipeline as the API.
//
//	batch_generate -email me@example.com -dir notes/ -count 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quizmaster/internal/adapter"
	"quizmaster/internal/adapter/llm"
	"quizmaster/internal/cache"
	"quizmaster/internal/config"
	"quizmaster/internal/database"
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/gateway"
	"quizmaster/internal/logger"
	"quizmaster/internal/repository"
	"quizmaster/internal/retry"
	"quizmaster/internal/service"

	"go.uber.org/zap"
)

// sourceFile is one piece of study material; its base name is the subject.
type sourceFile struct {
	Subject string
	Content string
}

func main() {
	email := flag.String("email", "", "email of the account that will own the quizzes")
	dir := flag.String("dir", "", "directory of .txt or .md files, one quiz per file")
	count := flag.Int("count", 5, "questions per quiz")
	flag.Parse()
	if *email == "" || *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	files, err := readSources(*dir)
	if err != nil {
		l.Fatal("Failed to read source files", zap.String("dir", *dir), zap.Error(err))
	}
	if len(files) == 0 {
		l.Warn("No source files found", zap.String("dir", *dir))
		return
	}

	provider, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		l.Fatal("Failed to create LLM client", zap.Error(err))
	}
	policy := retry.DefaultPolicy()
	if cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.BaseDelay > 0 {
		policy.BaseDelay = cfg.Retry.BaseDelay
	}
	quizGateway, err := gateway.New(provider, policy, l)
	if err != nil {
		l.Fatal("Failed to create AI gateway", zap.Error(err))
	}

	db, err := database.Open(cfg, l)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepository := repository.NewUserRepository(db)
	user, err := userRepository.GetByEmail(ctx, *email)
	if err != nil {
		l.Fatal("Failed to look up account", zap.Error(err))
	}
	if user == nil {
		l.Fatal("Account not found", zap.String("email", *email))
	}

	// The API caches generation lists, so new rows must invalidate them.
	var cacheAdapter domain.Cache
	if redisClient, err := cache.NewRedisClient(ctx, cfg.Redis); err != nil {
		l.Warn("Redis unavailable, cached generation lists may be stale until they expire", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	}
	listCache := service.NewGenerationListCache(cacheAdapter, cfg.Cache.GenerationsTTL)

	quizService := service.NewQuizService(repository.NewGenerationRepository(db), userRepository,
		repository.NewTransactionManagerAdapter(db), quizGateway, listCache, cfg.Quiz, l)

	created, err := runBatch(ctx, quizService, user.ID, files, *count, l)
	l.Info("Batch finished", zap.Int("created", created), zap.Int("files", len(files)))
	if err != nil {
		l.Fatal("Batch stopped", zap.Error(err))
	}
}

// readSources loads every .txt and .md file in dir, sorted by name.
func readSources(dir string) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []sourceFile
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".txt" && ext != ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		files = append(files, sourceFile{
			Subject: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Content: string(data),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Subject < files[j].Subject })
	return files, nil
}

// runBatch creates the quizzes one after another. It stops at the first
// quota error; other failures are logged and the next file is tried.
func runBatch(ctx context.Context, quizzes service.QuizService, userID string, files []sourceFile, count int, l *zap.Logger) (int, error) {
	created := 0
	for _, f := range files {
		resp, err := quizzes.CreateQuiz(ctx, userID, dto.CreateQuizRequest{
			Subject: f.Subject,
			Content: f.Content,
			Count:   count,
		})
		if err != nil {
			if domain.HasCode(err, domain.CodeQuotaExceeded) {
				return created, fmt.Errorf("stopped before %q: %w", f.Subject, err)
			}
			l.Error("Failed to generate quiz", zap.String("subject", f.Subject), zap.Error(err))
			continue
		}
		created++
		l.Info("Created quiz", zap.String("id", resp.ID), zap.String("subject", f.Subject), zap.Int("questions", resp.QuestionCount))
	}
	return created, nil
}
