package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/devspeak/devspeak-api/internal/config"
	"github.com/devspeak/devspeak-api/internal/handler"
	"github.com/devspeak/devspeak-api/internal/router"
	"github.com/devspeak/devspeak-api/internal/service"
	"github.com/devspeak/devspeak-api/pkg/ai"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
}

func authStub(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func newEvaluationApp(completer ai.Completer) *fiber.App {
	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := service.NewEvaluationService(completer, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "DevSpeak API", AppEnv: "test"}, router.Dependencies{
		EvaluationHandler: handler.NewEvaluationHandler(svc, logger),
		JWTMiddleware:     authStub(1),
	})

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")

	response, err := app.Test(request, -1)
	require.NoError(t, err)

	var parsed envelope
	decodeBody(t, response, &parsed)

	return response, parsed
}

func decodeBody(t *testing.T, response *http.Response, out *envelope) {
	t.Helper()

	require.NoError(t, json.NewDecoder(response.Body).Decode(out))
	require.NoError(t, response.Body.Close())
}

func TestStandupEndpointReturnsEvaluation(t *testing.T) {
	completer := &stubCompleter{response: `{"clarity": 85, "conciseness": 90, "impact": 75, "feedback": "Great update!"}`}
	app := newEvaluationApp(completer)

	response, body := postJSON(t, app, "/api/v1/standup", map[string]string{
		"yesterday": "Finished the exporter.",
		"today":     "Start on retries.",
	})

	require.Equal(t, http.StatusOK, response.StatusCode)
	require.True(t, body.Success)
	require.Equal(t, float64(85), body.Data["clarity"])
	require.Equal(t, float64(90), body.Data["conciseness"])
	require.Equal(t, float64(75), body.Data["impact"])
	require.Equal(t, "Great update!", body.Data["feedback"])
}

func TestStandupEndpointMissingFields(t *testing.T) {
	completer := &stubCompleter{response: `{}`}
	app := newEvaluationApp(completer)

	response, body := postJSON(t, app, "/api/v1/standup", map[string]string{
		"yesterday": "Finished the exporter.",
	})

	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.False(t, body.Success)
	require.Equal(t, "Yesterday and Today fields are required.", body.Message)
	require.Zero(t, completer.calls)
}

func TestCodeReviewEndpointInvalidRole(t *testing.T) {
	completer := &stubCompleter{response: `{}`}
	app := newEvaluationApp(completer)

	response, body := postJSON(t, app, "/api/v1/code-review", map[string]string{
		"role":         "manager",
		"codeToReview": "function add(a, b) { return a + b }",
	})

	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.Contains(t, body.Message, "manager")
	require.Zero(t, completer.calls)
}

func TestInterviewEndpointModelUnavailable(t *testing.T) {
	completer := &stubCompleter{err: ai.ErrCompletionFailed}
	app := newEvaluationApp(completer)

	response, body := postJSON(t, app, "/api/v1/interview", map[string]string{
		"role":     "Backend Engineer",
		"question": "What is a goroutine?",
		"answer":   "A lightweight thread managed by the runtime.",
	})

	require.Equal(t, http.StatusBadGateway, response.StatusCode)
	require.Equal(t, "AI service is currently unavailable. Please try again later.", body.Message)
}

func TestInterviewEndpointMalformedModelResponse(t *testing.T) {
	completer := &stubCompleter{response: "I am not able to help with that."}
	app := newEvaluationApp(completer)

	response, body := postJSON(t, app, "/api/v1/interview", map[string]string{
		"role":     "Backend Engineer",
		"question": "What is a goroutine?",
		"answer":   "A lightweight thread managed by the runtime.",
	})

	require.Equal(t, http.StatusInternalServerError, response.StatusCode)
	require.Equal(t, "AI failed to return a valid JSON format.", body.Message)
}

func TestWritingEndpointMissingMetric(t *testing.T) {
	completer := &stubCompleter{response: `{"clarity": 80, "structure": 85, "tone": 90, "feedback": "Good."}`}
	app := newEvaluationApp(completer)

	response, body := postJSON(t, app, "/api/v1/writing", map[string]string{
		"writingType": "design doc",
		"userContent": "We will shard by tenant id.",
	})

	require.Equal(t, http.StatusInternalServerError, response.StatusCode)
	require.Equal(t, "AI response was missing or had an invalid type for 'completeness'.", body.Message)
}

func TestPairProgrammingEndpointNavigator(t *testing.T) {
	completer := &stubCompleter{response: `{"clarity": 90, "effectiveness": 85, "precision": 80, "generatedCode": "const sum = (a, b) => a + b;"}`}
	app := newEvaluationApp(completer)

	response, body := postJSON(t, app, "/api/v1/pair-programming", map[string]string{
		"role":        "navigator",
		"instruction": "Write an arrow function that sums two numbers.",
	})

	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, "const sum = (a, b) => a + b;", body.Data["generatedCode"])
	require.NotContains(t, body.Data, "feedback")
}

func TestEvaluationEndpointRejectsMalformedBody(t *testing.T) {
	app := newEvaluationApp(&stubCompleter{response: `{}`})

	request := httptest.NewRequest(http.MethodPost, "/api/v1/standup", bytes.NewReader([]byte("{not json")))
	request.Header.Set("Content-Type", "application/json")

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.NoError(t, response.Body.Close())
}
