package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devspeak/devspeak-api/internal/dto"
	"github.com/devspeak/devspeak-api/internal/service"
	"github.com/devspeak/devspeak-api/internal/utils"
	"github.com/devspeak/devspeak-api/pkg/ai"
)

// EvaluationHandler exposes one endpoint per practice module.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("/code-review", h.codeReview)
	router.Post("/interview", h.interview)
	router.Post("/pair-programming", h.pairProgramming)
	router.Post("/standup", h.standup)
	router.Post("/writing", h.writing)
}

func (h *EvaluationHandler) codeReview(c *fiber.Ctx) error {
	var payload dto.CodeReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.EvaluateCodeReview(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err, "Role and code are required.")
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func (h *EvaluationHandler) interview(c *fiber.Ctx) error {
	var payload dto.InterviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.EvaluateInterview(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err, "Role, question, and answer are required.")
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func (h *EvaluationHandler) pairProgramming(c *fiber.Ctx) error {
	var payload dto.PairProgrammingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.EvaluatePairProgramming(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err, "Role is required.")
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func (h *EvaluationHandler) standup(c *fiber.Ctx) error {
	var payload dto.StandupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.EvaluateStandup(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err, "Yesterday and Today fields are required.")
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func (h *EvaluationHandler) writing(c *fiber.Ctx) error {
	var payload dto.WritingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.EvaluateWriting(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err, "Writing type and content are required.")
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

// handleError maps pipeline failures onto response statuses. The
// missingFields message covers struct-level validation so clients see the
// module's required-field list rather than validator internals.
func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error, missingFields string) error {
	var validationErrors validator.ValidationErrors
	var inputErr service.InputError
	var shapeErr service.ResponseShapeError

	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, missingFields)
	case errors.As(err, &inputErr):
		return utils.SendError(c, fiber.StatusBadRequest, inputErr.Message)
	case errors.Is(err, ai.ErrCompletionFailed):
		requestLogger(h.logger, c).Error().Err(err).Msg("model completion failed")
		return utils.SendError(c, fiber.StatusBadGateway, "AI service is currently unavailable. Please try again later.")
	case errors.Is(err, service.ErrMalformedEvaluation):
		return utils.SendError(c, fiber.StatusInternalServerError, "AI failed to return a valid JSON format.")
	case errors.As(err, &shapeErr):
		return utils.SendError(c, fiber.StatusInternalServerError, fmt.Sprintf("AI response was missing or had an invalid type for '%s'.", shapeErr.Key))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
