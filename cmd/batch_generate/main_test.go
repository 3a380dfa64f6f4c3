package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quizmaster/internal/domain"
	"quizmaster/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func created(id string) *dto.GenerationResponse {
	return &dto.GenerationResponse{GenerationSummary: dto.GenerationSummary{ID: id, QuestionCount: 3}}
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.md"), []byte("The wall fell in 1989."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "biology.txt"), []byte("Cells divide."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("  \n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o700))

	files, err := readSources(dir)
	require.NoError(t, err)
	assert.Equal(t, []sourceFile{
		{Subject: "biology", Content: "Cells divide."},
		{Subject: "history", Content: "The wall fell in 1989."},
	}, files)
}

func TestReadSources_MissingDir(t *testing.T) {
	_, err := readSources(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRunBatch_SkipsFailuresAndStopsAtQuota(t *testing.T) {
	svc := new(MockQuizService)
	ctx := context.Background()
	files := []sourceFile{
		{Subject: "a", Content: "first"},
		{Subject: "b", Content: "second"},
		{Subject: "c", Content: "third"},
		{Subject: "d", Content: "fourth"},
	}
	req := func(f sourceFile) dto.CreateQuizRequest {
		return dto.CreateQuizRequest{Subject: f.Subject, Content: f.Content, Count: 3}
	}

	svc.On("CreateQuiz", ctx, "user-1", req(files[0])).Return(created("g1"), nil).Once()
	svc.On("CreateQuiz", ctx, "user-1", req(files[1])).Return(nil, domain.NewTransportError(errors.New("down"))).Once()
	svc.On("CreateQuiz", ctx, "user-1", req(files[2])).Return(nil, domain.NewQuotaExceededError(1, 1)).Once()

	n, err := runBatch(ctx, svc, "user-1", files, 3, zap.NewNop())
	assert.Equal(t, 1, n)
	assert.True(t, domain.HasCode(err, domain.CodeQuotaExceeded))
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "CreateQuiz", ctx, "user-1", req(files[3]))
}

func TestRunBatch_AllCreated(t *testing.T) {
	svc := new(MockQuizService)
	ctx := context.Background()
	svc.On("CreateQuiz", ctx, "user-1", mock.AnythingOfType("dto.CreateQuizRequest")).Return(created("g"), nil).Twice()

	n, err := runBatch(ctx, svc, "user-1", []sourceFile{{Subject: "a", Content: "x"}, {Subject: "b", Content: "y"}}, 5, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	svc.AssertExpectations(t)
}
