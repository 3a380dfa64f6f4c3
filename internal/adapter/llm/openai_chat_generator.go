package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizmaster/internal/domain"

	openai "github.com/sashabaranov/go-openai"
)

// StatusError carries the HTTP status of a failed provider call so the
// retry policy can classify it without parsing text.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %v", e.Code, e.Err)
}

func (e *StatusError) Unwrap() error   { return e.Err }
func (e *StatusError) StatusCode() int { return e.Code }

// OpenAIChatGenerator talks to the chat completions API directly.
type OpenAIChatGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOpenAIChatGenerator builds a generator for the OpenAI API. baseURL may
// point at any compatible endpoint; empty keeps the default.
func NewOpenAIChatGenerator(apiKey, baseURL, model string, temperature float64, timeout time.Duration) domain.TextGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIChatGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(temperature),
		timeout:     timeout,
	}
}

// Generate implements domain.TextGenerator.
func (g *OpenAIChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: g.temperature,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{Code: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{Code: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
