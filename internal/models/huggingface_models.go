package models

type SummaryParameters struct {
	MinLength int  `json:"min_length,omitempty"`
	MaxLength int  `json:"max_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type SummaryRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters SummaryParameters `json:"parameters"`
}

// SummaryResponse accepts both the hosted summarizer shape ({"summary": ...})
// and the inference API shape ([{"summary_text": ...}]).
type SummaryResponse struct {
	Summary     string `json:"summary"`
	SummaryText string `json:"summary_text"`
}

func (s SummaryResponse) Text() string {
	if s.Summary != "" {
		return s.Summary
	}
	return s.SummaryText
}

type SentimentAnalysisRequest struct {
	Inputs string `json:"inputs"`
}

type SentimentAnalysisResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
