package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devspeak/devspeak-api/internal/service"
	"github.com/devspeak/devspeak-api/internal/utils"
)

// ProgressHandler serves the aggregated dashboard payload.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler builds a progress handler instance.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Get("/progress-data", h.progressData)
}

func (h *ProgressHandler) progressData(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	dashboard, found, err := h.service.GetDashboard(c.Context(), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("user_id", userID).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	if !found {
		return utils.SendSuccess(c, "No practice sessions found.", nil)
	}

	return utils.SendSuccess(c, "progress data retrieved", dashboard)
}
