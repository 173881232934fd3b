package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// FactoryConfig selects and configures a completion provider.
type FactoryConfig struct {
	Provider     string
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	MaxTokens    int
	Temperature  float32
	Logger       zerolog.Logger
}

// New builds the Completer for the configured provider.
func New(ctx context.Context, cfg FactoryConfig) (Completer, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Logger:      cfg.Logger,
		})
	case "gemini", "":
		return NewGeminiCompleter(ctx, GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Logger: cfg.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
