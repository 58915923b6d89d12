package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spacesedan/feedbackflow/internal/backend"
	"github.com/spacesedan/feedbackflow/internal/models"
)

type HuggingFaceConfig struct {
	SentimentEndpoint string
	SummaryEndpoint   string
	Token             string
	Timeout           time.Duration
	MaxRetries        uint64
	InitialBackoff    time.Duration
}

// HuggingFaceClient talks to hosted sentiment and summarization models. It
// satisfies both backend.Scorer and backend.Condenser and is safe for
// concurrent use.
type HuggingFaceClient struct {
	Client *http.Client
	cfg    HuggingFaceConfig
}

func NewHuggingFaceClient(cfg HuggingFaceConfig) *HuggingFaceClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = MAX_RETRIES
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = INITIAL_BACKOFF
	}
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", cfg.Timeout),
		slog.String("sentiment_endpoint", cfg.SentimentEndpoint),
		slog.String("summary_endpoint", cfg.SummaryEndpoint))

	return &HuggingFaceClient{
		Client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// errRetryable marks responses worth another attempt.
var errRetryable = errors.New("retryable response")

func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = h.cfg.InitialBackoff
	b.MaxInterval = MAX_BACKOFF
	policy := backoff.WithContext(backoff.WithMaxRetries(b, h.cfg.MaxRetries-1), ctx)

	var resp *http.Response
	attempt := 0
	operation := func() error {
		attempt++
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}
		r, err := h.Client.Do(req)
		if err != nil {
			return err
		}
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			r.Body.Close()
			return fmt.Errorf("%w: status code %d", errRetryable, r.StatusCode)
		}
		resp = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return resp, nil
}

// Score returns the top label of the sentiment model, e.g. "4 stars".
func (h *HuggingFaceClient) Score(ctx context.Context, text string) (string, error) {
	if h.cfg.SentimentEndpoint == "" {
		return "", fmt.Errorf("sentiment endpoint: %w", backend.ErrUnavailable)
	}
	start := time.Now()

	var raw json.RawMessage
	if err := h.postJSON(ctx, h.cfg.SentimentEndpoint, models.SentimentAnalysisRequest{Inputs: text}, &raw); err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}

	best, err := topLabel(raw)
	if err != nil {
		return "", err
	}
	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.String("label", best.Label),
		slog.Float64("score", best.Score),
		slog.Duration("elapsed", time.Since(start)))
	return best.Label, nil
}

func (h *HuggingFaceClient) Condense(ctx context.Context, text string, opts backend.CondenseOptions) (string, error) {
	if h.cfg.SummaryEndpoint == "" {
		return "", fmt.Errorf("summary endpoint: %w", backend.ErrUnavailable)
	}
	slog.Info("[HuggingFaceClient] Requesting summary from summarization service")
	start := time.Now()

	req := models.SummaryRequest{
		Inputs: text,
		Parameters: models.SummaryParameters{
			MinLength: opts.MinLength,
			MaxLength: opts.MaxLength,
			DoSample:  false,
		},
	}
	var raw json.RawMessage
	if err := h.postJSON(ctx, h.cfg.SummaryEndpoint, req, &raw); err != nil {
		slog.Error("[HuggingFaceClient] Summary Request Failed",
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}

	summary, err := summaryText(raw)
	if err != nil {
		return "", err
	}
	slog.Info("[HuggingFaceClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// HealthCheck reports whether endpoint answers a GET with a 2xx status.
func (h *HuggingFaceClient) HealthCheck(ctx context.Context, endpoint string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)
	h.authorize(req)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Health check failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (h *HuggingFaceClient) authorize(req *http.Request) {
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}
}

// helper function for posting data to the model endpoints
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		h.authorize(req)
		return req, nil
	}

	resp, err := h.DoWithRetry(ctx, build)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(string(respBody))))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// topLabel accepts a single prediction, a list of predictions, or the nested
// list the inference API returns for text classification.
func topLabel(raw json.RawMessage) (models.SentimentAnalysisResponse, error) {
	var candidates []models.SentimentAnalysisResponse

	var nested [][]models.SentimentAnalysisResponse
	var flat []models.SentimentAnalysisResponse
	var single models.SentimentAnalysisResponse
	switch {
	case json.Unmarshal(raw, &nested) == nil && len(nested) > 0:
		candidates = nested[0]
	case json.Unmarshal(raw, &flat) == nil:
		candidates = flat
	case json.Unmarshal(raw, &single) == nil && single.Label != "":
		candidates = []models.SentimentAnalysisResponse{single}
	}

	if len(candidates) == 0 {
		return models.SentimentAnalysisResponse{}, errors.New("sentiment response contained no labels")
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, nil
}

func summaryText(raw json.RawMessage) (string, error) {
	var list []models.SummaryResponse
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", errors.New("summary response was empty")
		}
		return strings.TrimSpace(list[0].Text()), nil
	}

	var single models.SummaryResponse
	if err := json.Unmarshal(raw, &single); err != nil {
		return "", fmt.Errorf("failed to decode summary: %w", err)
	}
	return strings.TrimSpace(single.Text()), nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
