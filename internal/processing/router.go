// Package processing turns a batch of feedback entries into the sentence
// buckets that feed the pain-point and praise summaries.
package processing

import (
	"log/slog"

	"github.com/spacesedan/feedbackflow/internal/lexicon"
	"github.com/spacesedan/feedbackflow/internal/models"
)

// Router sorts sentences into pains and praises using keyword matches only.
// It ignores the per-entry classification.
type Router struct {
	lexicon lexicon.Lexicon
}

func NewRouter(lex lexicon.Lexicon) *Router {
	return &Router{lexicon: lex}
}

// Route checks every sentence against the negative terms first; a sentence
// that matches goes to pains and is not checked again. Sentences matching
// neither set are dropped. Duplicates are kept.
func (r *Router) Route(entries []models.FeedbackEntry) (pains, praises []string) {
	for _, entry := range entries {
		for _, sentence := range Segment(entry.Text) {
			switch {
			case r.lexicon.HasNegative(sentence):
				pains = append(pains, sentence)
			case r.lexicon.HasPositive(sentence):
				praises = append(praises, sentence)
			}
		}
	}

	slog.Debug("[SentenceRouter] Routed sentences",
		slog.Int("entries", len(entries)),
		slog.Int("pains", len(pains)),
		slog.Int("praises", len(praises)))
	return pains, praises
}
