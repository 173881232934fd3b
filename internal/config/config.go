package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	DashboardCacheTTL time.Duration
	AIProvider        string
	OpenAIAPIKey      string
	OpenAIModel       string
	GeminiAPIKey      string
	GeminiModel       string
	AIMaxTokens       int
	AITemperature     float64
	EvaluationRateMax int
	EvaluationRateWin time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DEVSPEAK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "DevSpeak API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("evaluation.rate_max", 10)
	v.SetDefault("evaluation.rate_window", "1m")

	ttl, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("evaluation.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation rate window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		DashboardCacheTTL: ttl,
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:      v.GetString("openai.api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		GeminiAPIKey:      v.GetString("gemini.api_key"),
		GeminiModel:       v.GetString("gemini.model"),
		AIMaxTokens:       v.GetInt("ai.max_tokens"),
		AITemperature:     v.GetFloat64("ai.temperature"),
		EvaluationRateMax: v.GetInt("evaluation.rate_max"),
		EvaluationRateWin: rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 1024
	}

	if cfg.EvaluationRateMax <= 0 {
		cfg.EvaluationRateMax = 10
	}

	return cfg, nil
}
