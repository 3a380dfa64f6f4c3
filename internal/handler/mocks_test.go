package handler_test

import (
	"context"

	"quizmaster/internal/domain"
	"quizmaster/internal/dto"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthService) CreateJWT(user *domain.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

// ValidateJWT accepts "token-<userID>" so tests can act as any user.
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	const prefix = "token-"
	if len(tokenString) <= len(prefix) || tokenString[:len(prefix)] != prefix {
		return nil, domain.NewUnauthorizedError("invalid token")
	}
	return &dto.AuthClaims{UserID: tokenString[len(prefix):], TokenType: "access"}, nil
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserProfileResponse), args.Error(1)
}

func (m *MockUserService) Upgrade(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserProfileResponse), args.Error(1)
}

type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, userID string, req dto.CreateQuizRequest) (*dto.GenerationResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerationResponse), args.Error(1)
}

func (m *MockQuizService) ListGenerations(ctx context.Context, userID string) (*dto.GenerationListResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerationListResponse), args.Error(1)
}

func (m *MockQuizService) GetGeneration(ctx context.Context, userID, generationID string) (*dto.GenerationResponse, error) {
	args := m.Called(ctx, userID, generationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerationResponse), args.Error(1)
}

func (m *MockQuizService) Usage(ctx context.Context, userID string) (*dto.UsageResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UsageResponse), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Start(ctx context.Context, userID, generationID string) (*dto.SessionResponse, error) {
	args := m.Called(ctx, userID, generationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SessionResponse), args.Error(1)
}

func (m *MockSessionService) State(userID, sessionID string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(userID, sessionID))
}

func (m *MockSessionService) Answer(userID, sessionID, key string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(userID, sessionID, key))
}

func (m *MockSessionService) Next(userID, sessionID string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(userID, sessionID))
}

func (m *MockSessionService) Previous(userID, sessionID string) (*dto.SessionResponse, error) {
	return m.sessionResult(m.Called(userID, sessionID))
}

func (m *MockSessionService) Result(userID, sessionID string) (*dto.ResultResponse, error) {
	args := m.Called(userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResultResponse), args.Error(1)
}

func (m *MockSessionService) Abandon(userID, sessionID string) error {
	return m.Called(userID, sessionID).Error(0)
}

func (m *MockSessionService) sessionResult(args mock.Arguments) (*dto.SessionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SessionResponse), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) SubmitMessage(ctx context.Context, req dto.ContactRequest) (*dto.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}
