package service

import (
	"context"
	"time"

	"quizmaster/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockGenerationRepository ---
type MockGenerationRepository struct {
	mock.Mock
}

func (m *MockGenerationRepository) Create(ctx context.Context, generation *domain.Generation) error {
	args := m.Called(ctx, generation)
	return args.Error(0)
}

func (m *MockGenerationRepository) CreateWithinLimit(ctx context.Context, generation *domain.Generation) error {
	args := m.Called(ctx, generation)
	return args.Error(0)
}

func (m *MockGenerationRepository) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Generation), args.Error(1)
}

func (m *MockGenerationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Generation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Generation), args.Error(1)
}

func (m *MockGenerationRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) IncrementGenerationLimit(ctx context.Context, userID string, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- fakeQuizGenerator ---

// fakeQuizGenerator is hand-written rather than mocked because the creation
// tests call it from several goroutines and inspect concurrency.
type fakeQuizGenerator struct {
	questionFn func(ctx context.Context, subject, content string) (*domain.Question, error)
	feedbackFn func(ctx context.Context, questions []domain.Question, answers []domain.OptionKey, score domain.Score) (string, error)
}

func (f *fakeQuizGenerator) GenerateQuestion(ctx context.Context, subject, content string) (*domain.Question, error) {
	return f.questionFn(ctx, subject, content)
}

func (f *fakeQuizGenerator) GenerateFeedback(ctx context.Context, questions []domain.Question, answers []domain.OptionKey, score domain.Score) (string, error) {
	if f.feedbackFn == nil {
		return "", nil
	}
	return f.feedbackFn(ctx, questions, answers, score)
}

func sampleQuestion(text string, correct domain.OptionKey) domain.Question {
	return domain.Question{
		Question: text,
		Options: map[domain.OptionKey]string{
			domain.OptionA: text + " A",
			domain.OptionB: text + " B",
			domain.OptionC: text + " C",
			domain.OptionD: text + " D",
		},
		CorrectAnswer: correct,
	}
}

func testUser(limit int) *domain.User {
	u := domain.NewUser("alice@example.com", "Alice", "hash", limit)
	u.ID = "user-1"
	return u
}

// --- MockContactMessageRepository ---
type MockContactMessageRepository struct {
	mock.Mock
}

func (m *MockContactMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
