// Package analysis runs the full feedback analysis over one snapshot of
// entries: classify, route sentences, summarize both buckets, recommend.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/feedbackflow/internal/backend"
	"github.com/spacesedan/feedbackflow/internal/lexicon"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/processing"
	"github.com/spacesedan/feedbackflow/internal/recommend"
	"github.com/spacesedan/feedbackflow/internal/sentiment"
	"github.com/spacesedan/feedbackflow/internal/summarize"
)

type Settings struct {
	MaxInputRunes   int
	ScoreTimeout    time.Duration
	SummaryTimeout  time.Duration
	GenerateTimeout time.Duration
}

// Pipeline holds only read-only collaborators, so one Pipeline can serve
// concurrent runs; every run keeps its own labels, buckets and summaries.
type Pipeline struct {
	classifier *sentiment.Classifier
	router     *processing.Router
	summarizer *summarize.Summarizer
	engine     *recommend.Engine
	validator  *models.EntryValidator
}

func New(lex lexicon.Lexicon, backends backend.Backends, settings Settings) *Pipeline {
	return &Pipeline{
		classifier: sentiment.NewClassifier(lex, backends.Scorer(),
			sentiment.WithMaxInputRunes(settings.MaxInputRunes),
			sentiment.WithTimeout(settings.ScoreTimeout)),
		router:     processing.NewRouter(lex),
		summarizer: summarize.New(backends.Condenser(), settings.SummaryTimeout),
		engine:     recommend.New(backends.Generator(), settings.GenerateTimeout),
		validator:  models.NewEntryValidator(),
	}
}

// Analyze never fails: backend problems surface as fallback text and
// malformed entries are sanitized and analyzed anyway.
func (p *Pipeline) Analyze(ctx context.Context, entries []models.FeedbackEntry) models.AnalysisResult {
	runID := uuid.NewString()
	start := time.Now()
	log := slog.With(slog.String("run_id", runID))
	log.Info("[AnalysisPipeline] Starting analysis", slog.Int("entries", len(entries)))

	entries = p.sanitize(log, entries)

	var corpus strings.Builder
	labels := make([]sentiment.Classification, 0, len(entries))
	result := models.AnalysisResult{
		Classifications: make([]string, 0, len(entries)),
		Entries:         make([]models.EntryClassification, 0, len(entries)),
	}
	for _, entry := range entries {
		label := p.classifier.Classify(ctx, entry.Text, entry.Rating)
		ec := models.EntryClassification{Name: entry.Name, Classification: label}

		labels = append(labels, label)
		result.Entries = append(result.Entries, ec)
		result.Classifications = append(result.Classifications, ec.String())
		// one line per entry so the prompt cleaner only ever strips the name
		fmt.Fprintf(&corpus, "%s: %s (Rating: %d)\n", entry.Name, strings.Join(strings.Fields(entry.Text), " "), entry.Rating)
	}

	pains, praises := p.router.Route(entries)
	result.PainSummary = p.summarizer.Summarize(ctx, pains, summarize.NoPainPoints)
	result.PraiseSummary = p.summarizer.Summarize(ctx, praises, summarize.NoPraises)

	recommendation, outcome := p.engine.Evaluate(ctx, corpus.String(), labels)
	result.Recommendation = recommendation

	log.Info("[AnalysisPipeline] Analysis complete",
		slog.Int("pains", len(pains)),
		slog.Int("praises", len(praises)),
		slog.String("recommendation", outcome.String()),
		slog.Duration("elapsed", time.Since(start)))
	return result
}

// DefaultClassifications is the cheap listing-time labelling: rating and
// keywords only, no backends.
func (p *Pipeline) DefaultClassifications(entries []models.FeedbackEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = models.Sanitize(entry)
		ec := models.EntryClassification{
			Name:           entry.Name,
			Classification: p.classifier.ClassifyByRating(entry.Text, entry.Rating),
		}
		out = append(out, ec.String())
	}
	return out
}

func (p *Pipeline) sanitize(log *slog.Logger, entries []models.FeedbackEntry) []models.FeedbackEntry {
	out := make([]models.FeedbackEntry, 0, len(entries))
	for _, entry := range entries {
		if err := p.validator.Validate(entry); err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				log.Warn("[AnalysisPipeline] Invalid feedback entry, sanitizing",
					slog.Int64("entry_id", verr.EntryID),
					slog.String("fields", strings.Join(verr.Fields, ", ")))
			} else {
				log.Warn("[AnalysisPipeline] Could not validate feedback entry",
					slog.Int64("entry_id", entry.ID),
					slog.String("error", err.Error()))
			}
		}
		out = append(out, models.Sanitize(entry))
	}
	return out
}
