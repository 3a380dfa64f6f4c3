package service

import (
	"context"
	"strings"

	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/util"
	"quizmaster/internal/validation"

	"go.uber.org/zap"
)

// ContactService stores messages sent through the contact form.
type ContactService interface {
	SubmitMessage(ctx context.Context, req dto.ContactRequest) (*dto.MessageResponse, error)
}

type contactServiceImpl struct {
	messages  domain.ContactMessageRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewContactService creates a new instance of ContactService.
func NewContactService(messages domain.ContactMessageRepository, logger *zap.Logger) ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contactServiceImpl{
		messages:  messages,
		validator: validation.NewValidator(0),
		logger:    logger,
	}
}

func (s *contactServiceImpl) SubmitMessage(ctx context.Context, req dto.ContactRequest) (*dto.MessageResponse, error) {
	if errs := s.validator.ValidateContact(req.Name, req.Email, req.Message); len(errs) > 0 {
		return nil, errs
	}

	msg := domain.NewContactMessage(strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), strings.TrimSpace(req.Message))
	msg.ID = util.NewULID()
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, domain.NewInternalError("failed to save contact message", err)
	}

	s.logger.Info("Contact message received", zap.String("message_id", msg.ID))
	return &dto.MessageResponse{Message: "Thank you for your message. We will get back to you soon!"}, nil
}
