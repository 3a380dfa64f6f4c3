package llm

import (
	"context"
	"time"

	"quizmaster/internal/domain"

	"github.com/tmc/langchaingo/llms"
)

// LangchainGenerator sends single prompts through any langchaingo model
// (Gemini, OpenAI or Ollama).
type LangchainGenerator struct {
	model       llms.Model
	temperature float64
	timeout     time.Duration
}

// NewLangchainGenerator wraps model. A zero timeout leaves deadlines to the
// caller's context.
func NewLangchainGenerator(model llms.Model, temperature float64, timeout time.Duration) domain.TextGenerator {
	return &LangchainGenerator{
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}
}

// Generate implements domain.TextGenerator.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
}
