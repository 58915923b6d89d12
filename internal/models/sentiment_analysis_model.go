package models

// AnalysisRequest asks for a fresh analysis of the current feedback snapshot.
type AnalysisRequest struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source,omitempty"`
}
