// @title Quizmaster API
// @version 1.0
// @description Generates multiple-choice quizzes from study material and runs timed quiz sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

//go:generate swag init -g main.go -o docs --parseDependency --parseInternal

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quizmaster/cmd/api/docs"
	"quizmaster/internal/adapter"
	"quizmaster/internal/adapter/llm"
	"quizmaster/internal/cache"
	"quizmaster/internal/config"
	"quizmaster/internal/database"
	"quizmaster/internal/domain"
	"quizmaster/internal/gateway"
	"quizmaster/internal/handler"
	"quizmaster/internal/logger"
	"quizmaster/internal/middleware"
	"quizmaster/internal/repository"
	"quizmaster/internal/retry"
	"quizmaster/internal/service"
	"quizmaster/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// A missing provider credential stops the process before any request.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	provider, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	appLogger.Info("LLM provider initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)

	policy := retry.DefaultPolicy()
	if cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.BaseDelay > 0 {
		policy.BaseDelay = cfg.Retry.BaseDelay
	}
	quizGateway, err := gateway.New(provider, policy, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create AI gateway", zap.Error(err))
	}

	db, err := database.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db.DB, cfg.DB.Driver, appLogger); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	userRepository := repository.NewUserRepository(db)
	generationRepository := repository.NewGenerationRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Redis is optional; without it generation lists are read from the
	// database every time.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, generation list caching disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	}
	listCache := service.NewGenerationListCache(cacheAdapter, cfg.Cache.GenerationsTTL)

	quizService := service.NewQuizService(generationRepository, userRepository, txManager, quizGateway, listCache, cfg.Quiz, appLogger)
	authService, err := service.NewAuthService(userRepository, cfg.JWT, cfg.Quiz)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository, generationRepository, cfg.Quiz, appLogger)

	sessionManager := session.NewManager(quizGateway.GenerateFeedback, session.Options{
		BudgetSeconds:      cfg.Quiz.SessionSeconds,
		AutoSubmitOnExpiry: cfg.Quiz.AutoSubmitOnExpiry,
	}, appLogger, session.WithResultRetention(cfg.Quiz.ResultRetention))
	sessionService := service.NewSessionService(sessionManager, generationRepository, appLogger)
	contactService := service.NewContactService(repository.NewContactMessageRepository(db), appLogger)

	health := map[string]handler.Pinger{
		"database": handler.PingFunc(db.PingContext),
	}
	if cacheAdapter != nil {
		health["redis"] = cacheAdapter
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger(appLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Generation: handler.NewGenerationHandler(quizService),
		Session:    handler.NewSessionHandler(sessionService),
		Health:     handler.NewHealthHandler(health),
		Contact:    handler.NewContactHandler(contactService),
	}, authService)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	sessionManager.Close()
	appLogger.Info("Server exited gracefully")
}
