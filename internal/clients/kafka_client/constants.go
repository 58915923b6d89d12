package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REQUESTS = "feedback-analysis-requests" // triggers asking for a fresh snapshot analysis
	KAFKA_TOPIC_ANALYSIS_RESULTS  = "feedback-analysis-results"  // one AnalysisReport per coalesced batch
)

const (
	POLL_TIMEOUT     = 500 * time.Millisecond
	MAX_RETRIES      = 5
	RETRY_DELAY      = 2 * time.Second
	FLUSH_TIMEOUT_MS = 5000
)
