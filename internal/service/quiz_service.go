package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"quizmaster/internal/config"
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/util"
	"quizmaster/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// TopicPreviewLength is how much of the source text the generation list shows.
const TopicPreviewLength = 20

// QuizService creates and lists generations.
type QuizService interface {
	CreateQuiz(ctx context.Context, userID string, req dto.CreateQuizRequest) (*dto.GenerationResponse, error)
	ListGenerations(ctx context.Context, userID string) (*dto.GenerationListResponse, error)
	GetGeneration(ctx context.Context, userID, generationID string) (*dto.GenerationResponse, error)
	Usage(ctx context.Context, userID string) (*dto.UsageResponse, error)
}

type quizService struct {
	generations domain.GenerationRepository
	users       domain.UserRepository
	txManager   domain.TransactionManager
	generator   domain.QuizGenerator
	listCache   GenerationListCache
	validator   *validation.Validator
	cfg         config.QuizConfig
	logger      *zap.Logger
	group       singleflight.Group
}

// NewQuizService creates a new instance of quizService.
func NewQuizService(
	generations domain.GenerationRepository,
	users domain.UserRepository,
	txManager domain.TransactionManager,
	generator domain.QuizGenerator,
	listCache GenerationListCache,
	cfg config.QuizConfig,
	logger *zap.Logger,
) QuizService {
	if txManager == nil {
		txManager = noTransaction{}
	}
	if listCache == nil {
		listCache = noopGenerationListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &quizService{
		generations: generations,
		users:       users,
		txManager:   txManager,
		generator:   generator,
		listCache:   listCache,
		validator:   validation.NewValidator(cfg.MaxQuestions),
		cfg:         cfg,
		logger:      logger,
	}
}

// CreateQuiz generates req.Count questions concurrently and stores them as
// one generation. Nothing is stored when any question fails. The quota is
// checked before generating and enforced again by the insert itself, since
// other requests may have stored generations in the meantime.
func (s *quizService) CreateQuiz(ctx context.Context, userID string, req dto.CreateQuizRequest) (*dto.GenerationResponse, error) {
	if errs := s.validator.ValidateCreateQuiz(req.Subject, req.Content, req.Count); len(errs) > 0 {
		return nil, errs
	}
	subject := strings.TrimSpace(req.Subject)
	content := strings.TrimSpace(req.Content)

	usage, err := s.Usage(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usage.Remaining <= 0 {
		return nil, domain.NewQuotaExceededError(usage.Used, usage.Limit)
	}

	questions, err := s.generateQuestions(ctx, subject, content, req.Count)
	if err != nil {
		s.logger.Warn("Quiz generation failed",
			zap.String("user_id", userID),
			zap.String("subject", subject),
			zap.Int("count", req.Count),
			zap.Error(err),
		)
		return nil, err
	}

	generation := domain.NewGeneration(userID, subject, content, questions)
	generation.ID = util.NewULID()
	if err := generation.Validate(); err != nil {
		return nil, domain.NewInternalError("generated quiz is invalid", err)
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.generations.CreateWithinLimit(txCtx, generation)
	})
	if errors.Is(err, domain.ErrGenerationLimitReached) {
		s.logger.Info("Generation discarded, limit reached while generating", zap.String("user_id", userID))
		if usage, uerr := s.Usage(ctx, userID); uerr == nil {
			return nil, domain.NewQuotaExceededError(usage.Used, usage.Limit)
		}
		return nil, domain.NewQuotaExceededError(usage.Limit, usage.Limit)
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to save generation", err)
	}

	if err := s.listCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate generation list cache", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("Generation created",
		zap.String("generation_id", generation.ID),
		zap.String("user_id", userID),
		zap.Int("questions", len(questions)),
	)
	return toGenerationResponse(generation), nil
}

// generateQuestions fans out at most cfg.MaxParallel calls at a time. Each
// result lands in its own slot so the order matches the request order.
func (s *quizService) generateQuestions(ctx context.Context, subject, content string, count int) ([]domain.Question, error) {
	questions := make([]domain.Question, count)

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.MaxParallel
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := s.generator.GenerateQuestion(gctx, subject, content)
			if err != nil {
				return err
			}
			questions[i] = *q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return questions, nil
}

// ListGenerations returns the caller's generations, newest first. Lists are
// served from the cache when possible; cache failures fall back to the
// database.
func (s *quizService) ListGenerations(ctx context.Context, userID string) (*dto.GenerationListResponse, error) {
	// The load is shared by every caller waiting on userID, so one caller
	// going away must not cancel it for the others.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(userID, func() (interface{}, error) {
		return s.loadGenerationList(loadCtx, userID)
	})
	if err != nil {
		return nil, err
	}
	list := v.([]dto.GenerationSummary)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.GenerationListResponse{
		Generations: list,
		Usage:       usageOf(len(list), user.GenerationLimit),
	}, nil
}

func (s *quizService) loadGenerationList(ctx context.Context, userID string) ([]dto.GenerationSummary, error) {
	list, err := s.listCache.Get(ctx, userID)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, ErrGenerationListNotCached) {
		s.logger.Warn("Generation list cache read failed, using database", zap.String("user_id", userID), zap.Error(err))
	}

	generations, err := s.generations.ListByOwner(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list generations", err)
	}
	list = make([]dto.GenerationSummary, 0, len(generations))
	for _, g := range generations {
		list = append(list, toGenerationSummary(g, true))
	}

	if err := s.listCache.Put(ctx, userID, list); err != nil {
		s.logger.Warn("Failed to cache generation list", zap.String("user_id", userID), zap.Error(err))
	}
	return list, nil
}

// GetGeneration returns NOT_FOUND for unknown IDs and for generations owned
// by someone else.
func (s *quizService) GetGeneration(ctx context.Context, userID, generationID string) (*dto.GenerationResponse, error) {
	generation, err := s.ownedGeneration(ctx, userID, generationID)
	if err != nil {
		return nil, err
	}
	return toGenerationResponse(generation), nil
}

func (s *quizService) ownedGeneration(ctx context.Context, userID, generationID string) (*domain.Generation, error) {
	generation, err := s.generations.GetByID(ctx, generationID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get generation", err)
	}
	if generation == nil || generation.OwnerID != userID {
		return nil, domain.NewNotFoundError("generation not found")
	}
	return generation, nil
}

// Usage reports how many generations the user has created against their
// limit.
func (s *quizService) Usage(ctx context.Context, userID string) (*dto.UsageResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	used, err := s.generations.CountByOwner(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to count generations", err)
	}
	usage := usageOf(used, user.GenerationLimit)
	return &usage, nil
}

func (s *quizService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	return user, nil
}

// noTransaction runs fn directly, for callers without a transaction manager.
type noTransaction struct{}

func (noTransaction) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func usageOf(used, limit int) dto.UsageResponse {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return dto.UsageResponse{Used: used, Limit: limit, Remaining: remaining}
}

func toGenerationSummary(g *domain.Generation, preview bool) dto.GenerationSummary {
	topic := g.Topic
	if preview && utf8.RuneCountInString(topic) > TopicPreviewLength {
		topic = string([]rune(topic)[:TopicPreviewLength])
	}
	return dto.GenerationSummary{
		ID:            g.ID,
		Subject:       g.Subject,
		Topic:         topic,
		QuestionCount: g.QuestionCount,
		CreatedAt:     g.CreatedAt,
	}
}

func toGenerationResponse(g *domain.Generation) *dto.GenerationResponse {
	questions := make([]dto.QuestionResponse, 0, len(g.Questions))
	for _, q := range g.Questions {
		questions = append(questions, toQuestionResponse(q))
	}
	return &dto.GenerationResponse{
		GenerationSummary: toGenerationSummary(g, false),
		Questions:         questions,
	}
}

func toQuestionResponse(q domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		Question:      q.Question,
		Options:       optionMap(q),
		CorrectAnswer: string(q.CorrectAnswer),
	}
}

func optionMap(q domain.Question) map[string]string {
	options := make(map[string]string, len(q.Options))
	for k, v := range q.Options {
		options[string(k)] = v
	}
	return options
}
