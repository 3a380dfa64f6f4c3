package service

import (
	"context"

	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/session"

	"go.uber.org/zap"
)

// FeedbackFailedMessage is shown when the AI could not produce feedback.
const FeedbackFailedMessage = "Feedback could not be generated, please try again later."

// SessionService lets a user take one of their generations as a timed quiz.
type SessionService interface {
	Start(ctx context.Context, userID, generationID string) (*dto.SessionResponse, error)
	State(userID, sessionID string) (*dto.SessionResponse, error)
	Answer(userID, sessionID, key string) (*dto.SessionResponse, error)
	Next(userID, sessionID string) (*dto.SessionResponse, error)
	Previous(userID, sessionID string) (*dto.SessionResponse, error)
	Result(userID, sessionID string) (*dto.ResultResponse, error)
	Abandon(userID, sessionID string) error
}

type sessionService struct {
	manager     *session.Manager
	generations domain.GenerationRepository
	logger      *zap.Logger
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(manager *session.Manager, generations domain.GenerationRepository, logger *zap.Logger) SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionService{
		manager:     manager,
		generations: generations,
		logger:      logger,
	}
}

func (s *sessionService) Start(ctx context.Context, userID, generationID string) (*dto.SessionResponse, error) {
	generation, err := s.generations.GetByID(ctx, generationID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get generation", err)
	}
	if generation == nil || generation.OwnerID != userID {
		return nil, domain.NewNotFoundError("generation not found")
	}

	id, sess, err := s.manager.Start(userID, generation.ID, generation.Questions)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(id, generation.ID, sess.Questions(), sess.Snapshot()), nil
}

func (s *sessionService) State(userID, sessionID string) (*dto.SessionResponse, error) {
	sess, info, err := s.manager.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(info.ID, info.GenerationID, sess.Questions(), sess.Snapshot()), nil
}

func (s *sessionService) Answer(userID, sessionID, key string) (*dto.SessionResponse, error) {
	optionKey, err := domain.ParseOptionKey(key)
	if err != nil {
		return nil, err
	}
	return s.apply(userID, sessionID, func() (session.Snapshot, error) {
		return s.manager.SelectAnswer(sessionID, userID, optionKey)
	})
}

// Next moves forward. On the last question it submits the quiz and the
// response carries the score.
func (s *sessionService) Next(userID, sessionID string) (*dto.SessionResponse, error) {
	return s.apply(userID, sessionID, func() (session.Snapshot, error) {
		return s.manager.Next(sessionID, userID)
	})
}

func (s *sessionService) Previous(userID, sessionID string) (*dto.SessionResponse, error) {
	return s.apply(userID, sessionID, func() (session.Snapshot, error) {
		return s.manager.Previous(sessionID, userID)
	})
}

func (s *sessionService) apply(userID, sessionID string, op func() (session.Snapshot, error)) (*dto.SessionResponse, error) {
	sess, info, err := s.manager.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	snap, err := op()
	if err != nil {
		return nil, err
	}
	return toSessionResponse(info.ID, info.GenerationID, sess.Questions(), snap), nil
}

// Result is only available once the quiz has been submitted.
func (s *sessionService) Result(userID, sessionID string) (*dto.ResultResponse, error) {
	sess, info, err := s.manager.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	if snap.Phase != session.PhaseCompleted || snap.Score == nil {
		return nil, domain.NewInvalidTransitionError("the quiz has not been submitted yet")
	}

	questions := sess.Questions()
	review := make([]dto.ReviewItem, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		selected := snap.Answers[i]
		review = append(review, dto.ReviewItem{
			Question:     q.Question,
			SelectedKey:  string(selected),
			SelectedText: selectedText(q, selected),
			CorrectKey:   string(q.CorrectAnswer),
			CorrectText:  q.OptionText(q.CorrectAnswer),
			IsCorrect:    q.IsCorrect(selected),
		})
	}

	return &dto.ResultResponse{
		SessionID:    info.ID,
		GenerationID: info.GenerationID,
		Score:        toScoreResponse(*snap.Score),
		Review:       review,
		Feedback:     toFeedbackResponse(snap),
	}, nil
}

func (s *sessionService) Abandon(userID, sessionID string) error {
	return s.manager.Abandon(sessionID, userID)
}

func selectedText(q *domain.Question, key domain.OptionKey) string {
	if key == domain.NoAnswer {
		return "Not answered"
	}
	return q.OptionText(key)
}

func toSessionResponse(id, generationID string, questions []domain.Question, snap session.Snapshot) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:               id,
		GenerationID:     generationID,
		Phase:            string(snap.Phase),
		CurrentIndex:     snap.CurrentIndex,
		Total:            snap.Total,
		RemainingSeconds: snap.RemainingSeconds,
	}
	for _, a := range snap.Answers {
		if a != domain.NoAnswer {
			resp.Answered++
		}
	}

	switch snap.Phase {
	case session.PhaseInProgress:
		q := questions[snap.CurrentIndex]
		resp.Current = &dto.CurrentQuestion{
			Number:   snap.CurrentIndex + 1,
			Question: q.Question,
			Options:  optionMap(q),
			Selected: string(snap.Answers[snap.CurrentIndex]),
		}
	case session.PhaseCompleted:
		if snap.Score != nil {
			score := toScoreResponse(*snap.Score)
			resp.Score = &score
		}
	}
	return resp
}

func toScoreResponse(score domain.Score) dto.ScoreResponse {
	return dto.ScoreResponse{
		Correct:    score.Correct,
		Total:      score.Total,
		Percentage: score.Percentage,
	}
}

func toFeedbackResponse(snap session.Snapshot) dto.FeedbackResponse {
	switch snap.FeedbackStatus {
	case session.FeedbackReady:
		return dto.FeedbackResponse{Status: string(session.FeedbackReady), Text: snap.Feedback}
	case session.FeedbackFailed:
		return dto.FeedbackResponse{Status: string(session.FeedbackFailed), Message: FeedbackFailedMessage}
	default:
		return dto.FeedbackResponse{Status: string(session.FeedbackPending)}
	}
}
