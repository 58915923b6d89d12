// Package recommend turns a feedback corpus into a single recommendation for
// the product team. Generated text is untrusted and checked before it is used.
package recommend

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/feedbackflow/internal/backend"
	"github.com/spacesedan/feedbackflow/internal/sentiment"
)

const (
	NoFeedback         = "No feedback available to generate recommendations."
	AllPositive        = "All feedback is positive; the team should maintain their current approach."
	NotAttempted       = "Recommendation generation failed."
	InvocationFallback = "The team should prioritize fixing technical issues and improving performance."
	SafeFallback       = "The team should address stability, performance, and cost concerns to improve user trust and satisfaction."

	DefaultMaxTokens = 60
	DefaultTimeout   = 60 * time.Second
)

// Outcome records which path produced a recommendation.
type Outcome int

const (
	OutcomeNoFeedback Outcome = iota
	OutcomeAllPositive
	OutcomeNotAttempted
	OutcomeInvocationFailed
	OutcomeFiltered
	OutcomeGenerated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoFeedback:
		return "no_feedback"
	case OutcomeAllPositive:
		return "all_positive"
	case OutcomeNotAttempted:
		return "not_attempted"
	case OutcomeInvocationFailed:
		return "invocation_failed"
	case OutcomeFiltered:
		return "filtered"
	case OutcomeGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

type Engine struct {
	generator backend.Optional[backend.Generator]
	opts      backend.GenerateOptions
	timeout   time.Duration
}

func New(generator backend.Optional[backend.Generator], timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		generator: generator,
		opts:      backend.GenerateOptions{MaxTokens: DefaultMaxTokens},
		timeout:   timeout,
	}
}

func (e *Engine) Recommend(ctx context.Context, corpus string, labels []sentiment.Classification) string {
	text, _ := e.Evaluate(ctx, corpus, labels)
	return text
}

// Evaluate is Recommend plus the path that produced the text.
func (e *Engine) Evaluate(ctx context.Context, corpus string, labels []sentiment.Classification) (string, Outcome) {
	if len(labels) == 0 {
		return NoFeedback, OutcomeNoFeedback
	}
	if allPositive(labels) {
		return AllPositive, OutcomeAllPositive
	}

	feedback := CleanCorpus(corpus)
	prompt := BuildPrompt(feedback)

	generator, ok := e.generator.Get()
	if !ok {
		return NotAttempted, OutcomeNotAttempted
	}

	res := backend.Invoke(ctx, "generator", e.timeout, func(ctx context.Context) (string, error) {
		return generator.Generate(ctx, prompt, e.opts)
	})
	generated, err := res.Unwrap()
	if err != nil {
		slog.Error("[RecommendationEngine] Generation failed",
			slog.String("error", err.Error()))
		return InvocationFallback, OutcomeInvocationFailed
	}

	generated = strings.TrimSpace(generated)
	if generated == "" || Echoes(generated, feedback) {
		slog.Warn("[RecommendationEngine] Discarding generated recommendation",
			slog.Int("length", len(generated)))
		return SafeFallback, OutcomeFiltered
	}
	return generated, OutcomeGenerated
}

func allPositive(labels []sentiment.Classification) bool {
	for _, l := range labels {
		if l != sentiment.Positive {
			return false
		}
	}
	return true
}
