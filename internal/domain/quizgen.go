package domain

import "context"

// TextGenerator is the provider port: one prompt in, raw text out.
// Implementations live in internal/adapter/llm.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuizGenerator turns source material into questions and completed
// sessions into written feedback.
type QuizGenerator interface {
	GenerateQuestion(ctx context.Context, subject, content string) (*Question, error)
	GenerateFeedback(ctx context.Context, questions []Question, answers []OptionKey, score Score) (string, error)
}
