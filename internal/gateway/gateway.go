// Package gateway turns provider text into validated questions and
// feedback. It owns prompt construction, retries and response parsing; the
// provider itself sits behind domain.TextGenerator.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quizmaster/internal/domain"
	"quizmaster/internal/retry"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// Gateway implements domain.QuizGenerator.
type Gateway struct {
	provider domain.TextGenerator
	policy   retry.Policy
	schema   *gojsonschema.Schema
	logger   *zap.Logger
}

// New creates a Gateway. The policy's OnRetry hook is replaced by the
// gateway's own logging.
func New(provider domain.TextGenerator, policy retry.Policy, logger *zap.Logger) (*Gateway, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(questionSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile question schema: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		provider: provider,
		policy:   policy,
		schema:   schema,
		logger:   logger,
	}, nil
}

// GenerateQuestion asks the provider for one multiple-choice question about
// content. Provider output that cannot be parsed is reported as a
// MALFORMED_GENERATION error and is not retried.
func (g *Gateway) GenerateQuestion(ctx context.Context, subject, content string) (*domain.Question, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(content) == "" {
		return nil, domain.NewInvalidInputError("subject and content must not be empty")
	}

	raw, err := g.call(ctx, "question", buildQuestionPrompt(subject, content))
	if err != nil {
		return nil, err
	}

	q, err := parseQuestion(g.schema, raw)
	if err != nil {
		g.logger.Error("Provider returned an unusable question",
			zap.String("subject", subject),
			zap.String("raw_response", raw),
			zap.Error(err),
		)
		return nil, domain.NewMalformedGenerationError(raw, err)
	}
	return q, nil
}

// GenerateFeedback asks the provider for a plain-text review of a finished
// quiz. The returned text is trimmed but otherwise unchanged.
func (g *Gateway) GenerateFeedback(ctx context.Context, questions []domain.Question, answers []domain.OptionKey, score domain.Score) (string, error) {
	if len(questions) == 0 {
		return "", domain.NewInvalidInputError("feedback needs at least one question")
	}
	if len(answers) != len(questions) {
		return "", domain.NewInvalidInputError("answers and questions differ in length")
	}

	raw, err := g.call(ctx, "feedback", buildFeedbackPrompt(questions, answers, score))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (g *Gateway) call(ctx context.Context, kind, prompt string) (string, error) {
	policy := g.policy
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		g.logger.Warn("Retrying provider call",
			zap.String("kind", kind),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}

	start := time.Now()
	text, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return g.provider.Generate(ctx, prompt)
	})
	if err != nil {
		g.logger.Error("Provider call failed",
			zap.String("kind", kind),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", domain.NewTransportError(err)
	}

	g.logger.Debug("Provider call succeeded",
		zap.String("kind", kind),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_length", len(text)),
	)
	return text, nil
}
