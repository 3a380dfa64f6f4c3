package service

import (
	"context"
	"errors"
	"testing"

	"quizmaster/internal/domain"
	"quizmaster/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestContactService_SubmitMessage(t *testing.T) {
	messages := new(MockContactMessageRepository)
	svc := NewContactService(messages, zap.NewNop())

	messages.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.ContactMessage) bool {
		return m.ID != "" && m.Name == "Alice" && m.Email == "alice@example.com" &&
			m.Message == "More chemistry please." && !m.CreatedAt.IsZero()
	})).Return(nil)

	resp, err := svc.SubmitMessage(context.Background(), dto.ContactRequest{
		Name:    " Alice ",
		Email:   "alice@example.com",
		Message: "More chemistry please.\n",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)
	messages.AssertExpectations(t)
}

func TestContactService_InvalidFormStoresNothing(t *testing.T) {
	messages := new(MockContactMessageRepository)
	svc := NewContactService(messages, zap.NewNop())

	_, err := svc.SubmitMessage(context.Background(), dto.ContactRequest{Name: "Alice", Email: "not-an-email"})
	require.Error(t, err)
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactService_StoreFailure(t *testing.T) {
	messages := new(MockContactMessageRepository)
	svc := NewContactService(messages, zap.NewNop())
	messages.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.SubmitMessage(context.Background(), dto.ContactRequest{Name: "Alice", Email: "alice@example.com", Message: "Hi"})
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}
