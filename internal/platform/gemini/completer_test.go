package gemini

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskwise/taskwise-api/internal/config"
	"github.com/taskwise/taskwise-api/internal/generation"
)

func validLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-api-key",
		ModelName:         "gemini-2.0-flash",
		TimeoutSeconds:    30,
		MaxRetries:        1,
		RetryDelaySeconds: 2,
	}
}

func TestNewGeminiCompleter_NilLogger(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiCompleter(context.Background(), nil, validLLMConfig())
	assert.Error(t, err)
}

func TestNewGeminiCompleter_MissingAPIKey(t *testing.T) {
	t.Parallel()

	cfg := validLLMConfig()
	cfg.GeminiAPIKey = ""

	_, err := NewGeminiCompleter(context.Background(), slog.Default(), cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGeminiCompleter_MissingModelName(t *testing.T) {
	t.Parallel()

	cfg := validLLMConfig()
	cfg.ModelName = ""

	_, err := NewGeminiCompleter(context.Background(), slog.Default(), cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestComplete_EmptyPrompt(t *testing.T) {
	t.Parallel()

	completer, err := NewGeminiCompleter(context.Background(), slog.Default(), validLLMConfig())
	if err != nil {
		t.Skipf("client construction unavailable: %v", err)
	}

	_, err = completer.Complete(context.Background(), "")
	assert.ErrorIs(t, err, generation.ErrEmptyPrompt)
}
