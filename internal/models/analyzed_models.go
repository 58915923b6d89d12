package models

import (
	"time"

	"github.com/spacesedan/feedbackflow/internal/sentiment"
)

// EntryClassification pairs a feedback author with the label computed for
// their entry in one analysis run.
type EntryClassification struct {
	Name           string                   `json:"name"`
	Classification sentiment.Classification `json:"classification"`
}

func (e EntryClassification) String() string {
	return e.Name + ": " + e.Classification.String()
}

// AnalysisResult is built once per run and never mutated afterwards.
type AnalysisResult struct {
	Classifications []string              `json:"classifications"`
	Entries         []EntryClassification `json:"entries"`
	PainSummary     string                `json:"pain_summary"`
	PraiseSummary   string                `json:"praise_summary"`
	Recommendation  string                `json:"recommendation"`
}

// AnalysisReport wraps a result with the metadata of the run that produced it.
type AnalysisReport struct {
	RunID      string         `json:"run_id"`
	RequestIDs []string       `json:"request_ids,omitempty"`
	EntryCount int            `json:"entry_count"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
	Result     AnalysisResult `json:"result"`
}
