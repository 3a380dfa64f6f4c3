package service

import (
	"context"

	"quizmaster/internal/config"
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"

	"go.uber.org/zap"
)

// UserService serves the profile page and the simulated upgrade.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	Upgrade(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
}

type userServiceImpl struct {
	userRepo    domain.UserRepository
	generations domain.GenerationRepository
	quizConfig  config.QuizConfig
	logger      *zap.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo domain.UserRepository, generations domain.GenerationRepository, quizConfig config.QuizConfig, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userServiceImpl{
		userRepo:    userRepo,
		generations: generations,
		quizConfig:  quizConfig,
		logger:      logger,
	}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	used, err := s.generations.CountByOwner(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to count generations", err)
	}

	return &dto.UserProfileResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Usage: usageOf(used, user.GenerationLimit),
	}, nil
}

// Upgrade stands in for a payment: it raises the generation limit by
// UpgradeIncrement and returns the updated profile.
func (s *userServiceImpl) Upgrade(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}

	if err := s.userRepo.IncrementGenerationLimit(ctx, userID, s.quizConfig.UpgradeIncrement); err != nil {
		return nil, domain.NewInternalError("failed to upgrade generation limit", err)
	}
	s.logger.Info("Generation limit upgraded",
		zap.String("user_id", userID),
		zap.Int("increment", s.quizConfig.UpgradeIncrement),
	)
	return s.GetProfile(ctx, userID)
}
