package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// GeminiConfig defines configuration options for the Gemini completer.
type GeminiConfig struct {
	APIKey string
	Model  string
	Logger zerolog.Logger
}

// GeminiCompleter implements Completer against the Google Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiCompleter builds a new completer using the provided configuration.
func NewGeminiCompleter(ctx context.Context, cfg GeminiConfig) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiCompleter{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/devspeak/devspeak-api/pkg/ai/gemini"),
		logger: logger,
	}, nil
}

// Complete sends the prompt to Gemini and returns the raw text completion.
func (c *GeminiCompleter) Complete(parent context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(parent, "gemini.complete", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), nil)
	completionDuration.WithLabelValues("gemini", c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		completionFailures.WithLabelValues("gemini", c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error().Err(err).Msg("gemini completion request failed")
		return "", fmt.Errorf("%w: gemini: %v", ErrCompletionFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err := fmt.Errorf("%w: empty response from gemini", ErrCompletionFailed)
		completionFailures.WithLabelValues("gemini", c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return text, nil
}
