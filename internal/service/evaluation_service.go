package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/devspeak/devspeak-api/internal/dto"
	"github.com/devspeak/devspeak-api/pkg/ai"
)

// ErrMalformedEvaluation indicates the model answered with something that is
// not a JSON evaluation object. The raw text is logged server-side only.
var ErrMalformedEvaluation = errors.New("malformed evaluation response")

// InputError is a client input problem detected before any model call.
type InputError struct {
	Message string
}

func (e InputError) Error() string {
	return e.Message
}

// ResponseShapeError reports a required key missing or mistyped in an
// otherwise well-formed model response.
type ResponseShapeError struct {
	Key string
}

func (e ResponseShapeError) Error() string {
	return fmt.Sprintf("evaluation response missing or invalid key %q", e.Key)
}

// EvaluationService scores practice attempts with the configured AI model.
type EvaluationService interface {
	EvaluateCodeReview(ctx context.Context, payload dto.CodeReviewRequest) (dto.EvaluationResult, error)
	EvaluateInterview(ctx context.Context, payload dto.InterviewRequest) (dto.EvaluationResult, error)
	EvaluatePairProgramming(ctx context.Context, payload dto.PairProgrammingRequest) (dto.EvaluationResult, error)
	EvaluateStandup(ctx context.Context, payload dto.StandupRequest) (dto.EvaluationResult, error)
	EvaluateWriting(ctx context.Context, payload dto.WritingRequest) (dto.EvaluationResult, error)
}

// moduleSpec parametrises the shared validate/prompt/parse/clamp pipeline.
// numericKeys is the module's fixed metric set; textKey is the single
// free-text key the model must return alongside the metrics.
type moduleSpec struct {
	module      string
	role        string
	numericKeys []string
	textKey     string
}

type evaluationService struct {
	completer ai.Completer
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(completer ai.Completer, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		completer: completer,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) EvaluateCodeReview(ctx context.Context, payload dto.CodeReviewRequest) (dto.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResult{}, err
	}

	var spec moduleSpec
	var prompt string

	switch payload.Role {
	case "reviewer":
		if strings.TrimSpace(payload.UserReview) == "" {
			return dto.EvaluationResult{}, InputError{Message: "User review is required for the reviewer role."}
		}
		spec = moduleSpec{
			module:      "code-review",
			role:        "reviewer",
			numericKeys: []string{"constructiveness", "specificity", "tone"},
			textKey:     "feedback",
		}
		prompt = reviewerPrompt(payload.CodeToReview, s.cleanText(payload.UserReview))
	case "author":
		spec = moduleSpec{
			module:      "code-review",
			role:        "author",
			numericKeys: []string{"correctness", "readability", "bestPractices"},
			textKey:     "feedback",
		}
		prompt = authorPrompt(payload.CodeToReview)
	default:
		return dto.EvaluationResult{}, InputError{Message: fmt.Sprintf("Invalid role %q selected.", payload.Role)}
	}

	return s.evaluate(ctx, spec, prompt)
}

func (s *evaluationService) EvaluateInterview(ctx context.Context, payload dto.InterviewRequest) (dto.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResult{}, err
	}

	spec := moduleSpec{
		module:      "interview",
		role:        payload.Role,
		numericKeys: []string{"accuracy", "depth", "clarity"},
		textKey:     "feedback",
	}
	prompt := interviewPrompt(s.cleanText(payload.Role), s.cleanText(payload.Question), s.cleanText(payload.Answer))

	return s.evaluate(ctx, spec, prompt)
}

func (s *evaluationService) EvaluatePairProgramming(ctx context.Context, payload dto.PairProgrammingRequest) (dto.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResult{}, err
	}

	var spec moduleSpec
	var prompt string

	switch payload.Role {
	case "driver":
		if strings.TrimSpace(payload.Code) == "" || strings.TrimSpace(payload.Task) == "" {
			return dto.EvaluationResult{}, InputError{Message: "Code and task are required for the driver role."}
		}
		spec = moduleSpec{
			module:      "pair-programming",
			role:        "driver",
			numericKeys: []string{"correctness", "efficiency", "readability"},
			textKey:     "feedback",
		}
		prompt = driverPrompt(s.cleanText(payload.Task), payload.Code)
	case "navigator":
		if strings.TrimSpace(payload.Instruction) == "" {
			return dto.EvaluationResult{}, InputError{Message: "Instruction is required for the navigator role."}
		}
		spec = moduleSpec{
			module:      "pair-programming",
			role:        "navigator",
			numericKeys: []string{"clarity", "effectiveness", "precision"},
			textKey:     dto.TextKeyGeneratedCode,
		}
		prompt = navigatorPrompt(s.cleanText(payload.Instruction))
	default:
		return dto.EvaluationResult{}, InputError{Message: fmt.Sprintf("Invalid role %q provided.", payload.Role)}
	}

	return s.evaluate(ctx, spec, prompt)
}

func (s *evaluationService) EvaluateStandup(ctx context.Context, payload dto.StandupRequest) (dto.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResult{}, err
	}

	blockers := s.cleanText(payload.Blockers)
	if blockers == "" {
		blockers = "None mentioned"
	}

	spec := moduleSpec{
		module:      "standup",
		numericKeys: []string{"clarity", "conciseness", "impact"},
		textKey:     "feedback",
	}
	prompt := standupPrompt(s.cleanText(payload.Yesterday), s.cleanText(payload.Today), blockers)

	return s.evaluate(ctx, spec, prompt)
}

func (s *evaluationService) EvaluateWriting(ctx context.Context, payload dto.WritingRequest) (dto.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResult{}, err
	}

	spec := moduleSpec{
		module:      "writing",
		numericKeys: []string{"clarity", "structure", "tone", "completeness"},
		textKey:     "feedback",
	}
	prompt := writingPrompt(s.cleanText(payload.WritingType), s.cleanText(payload.UserContent))

	return s.evaluate(ctx, spec, prompt)
}

// evaluate runs the shared pipeline: call the model, strip code fences,
// parse JSON, enforce the module's key set and clamp every metric to [0,100].
func (s *evaluationService) evaluate(ctx context.Context, spec moduleSpec, prompt string) (dto.EvaluationResult, error) {
	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return dto.EvaluationResult{}, err
	}

	payload, err := decodeEvaluation(raw)
	if err != nil {
		s.logger.Error().
			Str("module", spec.module).
			Str("role", spec.role).
			Str("raw_response", raw).
			Msg("failed to parse model response as json")
		return dto.EvaluationResult{}, ErrMalformedEvaluation
	}

	scores := make(map[string]int, len(spec.numericKeys))
	for _, key := range spec.numericKeys {
		number, ok := payload[key].(json.Number)
		if !ok {
			s.logger.Error().
				Str("module", spec.module).
				Str("key", key).
				Str("raw_response", raw).
				Msg("model response missing numeric metric")
			return dto.EvaluationResult{}, ResponseShapeError{Key: key}
		}

		value, err := number.Float64()
		if err != nil {
			return dto.EvaluationResult{}, ResponseShapeError{Key: key}
		}

		scores[key] = clampScore(value)
	}

	text, ok := payload[spec.textKey].(string)
	if !ok {
		s.logger.Error().
			Str("module", spec.module).
			Str("key", spec.textKey).
			Str("raw_response", raw).
			Msg("model response missing text key")
		return dto.EvaluationResult{}, ResponseShapeError{Key: spec.textKey}
	}

	result := dto.EvaluationResult{
		Module:  spec.module,
		Role:    spec.role,
		Scores:  scores,
		TextKey: spec.textKey,
	}
	if spec.textKey == dto.TextKeyGeneratedCode {
		result.GeneratedCode = text
	} else {
		result.Feedback = text
	}

	return result, nil
}

// cleanText strips markup from user-supplied prose before it is interpolated
// into a prompt template. Code fields are passed through untouched since the
// templates wrap them in fenced blocks.
func (s *evaluationService) cleanText(input string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(input)))
}

// Models often wrap JSON answers in markdown code fences despite being told
// not to. Remove every fence marker before parsing.
var fencePattern = regexp.MustCompile("```(?:json|javascript|js)?")

func decodeEvaluation(raw string) (map[string]interface{}, error) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}

	return payload, nil
}

func clampScore(value float64) int {
	return int(math.Round(math.Max(0, math.Min(100, value))))
}
