package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizmaster/internal/config"
	"quizmaster/internal/domain"
	"quizmaster/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is a minimal llms.Model returning a canned completion.
type fakeModel struct {
	reply   string
	err     error
	prompts []string
	opts    llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, opt := range options {
		opt(&f.opts)
	}
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompts = append(f.prompts, text.Text)
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.reply}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLangchainGenerator_Generate(t *testing.T) {
	model := &fakeModel{reply: `{"question":"q"}`}
	gen := NewLangchainGenerator(model, 0.3, time.Second)

	out, err := gen.Generate(context.Background(), "make a question")
	require.NoError(t, err)
	assert.Equal(t, `{"question":"q"}`, out)
	assert.Equal(t, []string{"make a question"}, model.prompts)
	assert.Equal(t, 0.3, model.opts.Temperature)
}

func TestLangchainGenerator_PropagatesError(t *testing.T) {
	providerErr := errors.New("googleapi: Error 429: Resource has been exhausted")
	gen := NewLangchainGenerator(&fakeModel{err: providerErr}, 0.7, 0)

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, retry.IsRateLimitOrServerError(err))
}

func newChatServer(t *testing.T, status int, body interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIChatGenerator_Generate(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": "Great work overall."},
			},
		},
	})

	gen := NewOpenAIChatGenerator("test-key", srv.URL+"/v1", "gpt-4o-mini", 0.7, 5*time.Second)
	out, err := gen.Generate(context.Background(), "give feedback")
	require.NoError(t, err)
	assert.Equal(t, "Great work overall.", out)
}

func TestOpenAIChatGenerator_RateLimitIsRetryable(t *testing.T) {
	srv := newChatServer(t, http.StatusTooManyRequests, map[string]interface{}{
		"error": map[string]interface{}{
			"message": "Rate limit reached",
			"type":    "requests",
		},
	})

	gen := NewOpenAIChatGenerator("test-key", srv.URL+"/v1", "gpt-4o-mini", 0.7, 5*time.Second)
	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode())
	assert.True(t, retry.IsRateLimitOrServerError(err))
}

func TestOpenAIChatGenerator_BadRequestIsNotRetryable(t *testing.T) {
	srv := newChatServer(t, http.StatusBadRequest, map[string]interface{}{
		"error": map[string]interface{}{
			"message": "Invalid model",
			"type":    "invalid_request_error",
		},
	})

	gen := NewOpenAIChatGenerator("test-key", srv.URL+"/v1", "gpt-4o-mini", 0.7, 5*time.Second)
	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.False(t, retry.IsRateLimitOrServerError(err))
}

func TestNewFromConfig_OpenAIChat(t *testing.T) {
	gen, err := NewFromConfig(context.Background(), config.LLMConfig{
		Provider: config.ProviderOpenAIChat,
		APIKey:   "key",
		Model:    "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIChatGenerator{}, gen)
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	_, err := NewFromConfig(context.Background(), config.LLMConfig{Provider: "bard"})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeConfiguration))
}
