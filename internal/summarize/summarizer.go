// Package summarize condenses a bucket of feedback sentences into a short
// summary. Summaries are best-effort: every failure degrades to the raw text.
package summarize

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/feedbackflow/internal/backend"
)

const (
	NoPainPoints = "No major pain points detected."
	NoPraises    = "No major praises detected."

	DefaultMinLength = 20
	DefaultMaxLength = 80
	DefaultTimeout   = 60 * time.Second
)

type Summarizer struct {
	condenser backend.Optional[backend.Condenser]
	opts      backend.CondenseOptions
	timeout   time.Duration
}

func New(condenser backend.Optional[backend.Condenser], timeout time.Duration) *Summarizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Summarizer{
		condenser: condenser,
		opts:      backend.CondenseOptions{MinLength: DefaultMinLength, MaxLength: DefaultMaxLength},
		timeout:   timeout,
	}
}

// Summarize returns sentinel for an empty bucket without calling the backend.
// Otherwise the sentences are joined with a single space and condensed; when
// the backend is missing, fails or returns nothing the joined text is returned.
func (s *Summarizer) Summarize(ctx context.Context, sentences []string, sentinel string) string {
	if len(sentences) == 0 {
		return sentinel
	}
	joined := strings.Join(sentences, " ")

	condenser, ok := s.condenser.Get()
	if !ok {
		return joined
	}

	res := backend.Invoke(ctx, "condenser", s.timeout, func(ctx context.Context) (string, error) {
		return condenser.Condense(ctx, joined, s.opts)
	})
	return backend.Fold(res,
		func(summary string) string {
			summary = strings.TrimSpace(summary)
			if summary == "" {
				slog.Warn("[Summarizer] Backend returned an empty summary, using raw text")
				return joined
			}
			return summary
		},
		func(err error) string {
			slog.Error("[Summarizer] Summarization failed, using raw text",
				slog.Int("sentences", len(sentences)),
				slog.String("error", err.Error()))
			return joined
		})
}
