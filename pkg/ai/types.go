package ai

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrCompletionFailed indicates the provider could not be reached or refused
// the request. Callers surface this as "model unavailable", distinct from a
// response that arrived but could not be parsed.
var ErrCompletionFailed = errors.New("ai completion failed")

// Completer describes a generative language model that turns a text prompt
// into a text completion.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	completionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "devspeak",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of AI completion requests",
	}, []string{"provider", "model"})

	completionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devspeak",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of AI completion failures",
	}, []string{"provider", "model"})
)
