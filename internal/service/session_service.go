package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/devspeak/devspeak-api/internal/dto"
	"github.com/devspeak/devspeak-api/internal/models"
	"github.com/devspeak/devspeak-api/internal/repository"
)

// SessionLoggedSubject is the NATS subject session events are published on.
const SessionLoggedSubject = "devspeak.sessions.logged"

// SessionService persists completed practice sessions.
type SessionService interface {
	Log(ctx context.Context, userID uint, payload dto.LogSessionRequest) error
}

type sessionService struct {
	sessions  repository.SessionRepository
	cache     *redis.Client
	events    *nats.Conn
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSessionService constructs the session logging service. The cache and
// event connections are optional; a nil value disables that side effect.
func NewSessionService(sessions repository.SessionRepository, cache *redis.Client, events *nats.Conn, validate *validator.Validate, logger zerolog.Logger) SessionService {
	return &sessionService{
		sessions:  sessions,
		cache:     cache,
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "session_service").Logger(),
	}
}

// Log inserts exactly one practice session owned by the authenticated user.
// The owner id comes from the resolved JWT, never from the request body.
func (s *sessionService) Log(ctx context.Context, userID uint, payload dto.LogSessionRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	session := models.PracticeSession{
		UserID:     userID,
		ModuleType: payload.ModuleType,
		TaskName:   payload.TaskName,
		UserInput:  datatypes.JSONMap(payload.UserInput),
		AIFeedback: payload.AIFeedback,
	}
	if payload.Scores != nil {
		session.Scores = datatypes.JSONMap(payload.Scores)
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return fmt.Errorf("insert practice session: %w", err)
	}

	s.invalidateDashboard(ctx, userID)
	s.publishLogged(session)

	return nil
}

func (s *sessionService) invalidateDashboard(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}

	key := fmt.Sprintf("dashboard:user:%d", userID)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate dashboard cache")
	}
}

// publishLogged emits a best-effort session event. Publish failures are
// logged and never surfaced: the session row is already committed.
func (s *sessionService) publishLogged(session models.PracticeSession) {
	if s.events == nil {
		return
	}

	event := map[string]interface{}{
		"user_id":     session.UserID,
		"module_type": session.ModuleType,
		"logged_at":   session.CreatedAt.UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode session event")
		return
	}

	if err := s.events.Publish(SessionLoggedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish session event")
	}
}
