package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devspeak/devspeak-api/internal/config"
	"github.com/devspeak/devspeak-api/internal/database"
	"github.com/devspeak/devspeak-api/internal/handler"
	"github.com/devspeak/devspeak-api/internal/middleware"
	"github.com/devspeak/devspeak-api/internal/models"
	"github.com/devspeak/devspeak-api/internal/repository"
	"github.com/devspeak/devspeak-api/internal/router"
	"github.com/devspeak/devspeak-api/internal/service"
	"github.com/devspeak/devspeak-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.PracticeSession{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	completer, err := ai.New(context.Background(), ai.FactoryConfig{
		Provider:     cfg.AIProvider,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		MaxTokens:    cfg.AIMaxTokens,
		Temperature:  float32(cfg.AITemperature),
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("failed to create ai completer: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	sessionRepo := repository.NewSessionRepository(db)

	evaluationService := service.NewEvaluationService(completer, validate, logger)
	sessionService := service.NewSessionService(sessionRepo, redisClient, natsConn, validate, logger)
	progressService := service.NewProgressService(sessionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	progressHandler := handler.NewProgressHandler(progressService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		SessionHandler:    sessionHandler,
		ProgressHandler:   progressHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		RateLimiter:       middleware.RateLimit("evaluation", cfg.EvaluationRateMax, cfg.EvaluationRateWin),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
