package llm

import (
	"context"
	"fmt"
	"net/http"

	"quizmaster/internal/config"
	"quizmaster/internal/domain"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// NewFromConfig builds the text generator selected by llm.provider.
// cfg is expected to have passed config.Validate.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (domain.TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderGoogleAI:
		model, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI client: %w", err)
		}
		return NewLangchainGenerator(model, cfg.Temperature, cfg.Timeout), nil

	case config.ProviderOpenAI:
		opts := []lcopenai.Option{
			lcopenai.WithToken(cfg.APIKey),
			lcopenai.WithModel(cfg.Model),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, lcopenai.WithBaseURL(cfg.ServerURL))
		}
		model, err := lcopenai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return NewLangchainGenerator(model, cfg.Temperature, cfg.Timeout), nil

	case config.ProviderOllama:
		model, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return NewLangchainGenerator(model, cfg.Temperature, 0), nil

	case config.ProviderOpenAIChat:
		return NewOpenAIChatGenerator(cfg.APIKey, cfg.ServerURL, cfg.Model, cfg.Temperature, cfg.Timeout), nil
	}
	return nil, domain.NewConfigurationError(fmt.Sprintf("unsupported llm.provider %q", cfg.Provider))
}
