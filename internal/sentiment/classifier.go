// Package sentiment classifies feedback entries from their text and rating.
package sentiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/feedbackflow/internal/backend"
	"github.com/spacesedan/feedbackflow/internal/lexicon"
)

const (
	DefaultMaxInputRunes = 512
	DefaultTimeout       = 30 * time.Second

	minRating = 1
	maxRating = 5
)

// Classifier assigns a Classification to a (text, rating) pair. The star
// signal comes from the scoring backend when one is configured and from the
// rating otherwise; negative keywords turn a positive signal into Mixed.
type Classifier struct {
	lexicon       lexicon.Lexicon
	scorer        backend.Optional[backend.Scorer]
	maxInputRunes int
	timeout       time.Duration
}

type Option func(*Classifier)

func WithMaxInputRunes(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.maxInputRunes = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClassifier(lex lexicon.Lexicon, scorer backend.Optional[backend.Scorer], opts ...Option) *Classifier {
	c := &Classifier{
		lexicon:       lex,
		scorer:        scorer,
		maxInputRunes: DefaultMaxInputRunes,
		timeout:       DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) Classify(ctx context.Context, text string, rating int) Classification {
	return c.decide(text, c.stars(ctx, text, clampRating(rating)))
}

// ClassifyByRating is the cheap display-time rule: rating plus keyword
// override, never touching the scoring backend.
func (c *Classifier) ClassifyByRating(text string, rating int) Classification {
	return c.decide(text, clampRating(rating))
}

func (c *Classifier) decide(text string, stars int) Classification {
	// Mixed only applies to a positive-leaning signal; 3 stays Neutral.
	if stars >= 4 && c.lexicon.HasNegative(text) {
		return Mixed
	}
	return FromStars(stars)
}

func (c *Classifier) stars(ctx context.Context, text string, rating int) int {
	scorer, ok := c.scorer.Get()
	if !ok {
		return rating
	}

	input := ConvertMarkdownToText(text)
	if input == "" {
		input = text
	}
	input = Truncate(input, c.maxInputRunes)

	res := backend.Invoke(ctx, "scorer", c.timeout, func(ctx context.Context) (string, error) {
		return scorer.Score(ctx, input)
	})
	return backend.Fold(res,
		func(label string) int {
			stars := ParseStars(label)
			slog.Debug("[Classifier] Backend scored entry",
				slog.String("label", label),
				slog.Int("stars", stars))
			return stars
		},
		func(err error) int {
			slog.Warn("[Classifier] Scoring failed, falling back to rating",
				slog.Int("rating", rating),
				slog.String("error", err.Error()))
			return rating
		})
}

func clampRating(rating int) int {
	if rating < minRating {
		return minRating
	}
	if rating > maxRating {
		return maxRating
	}
	return rating
}
