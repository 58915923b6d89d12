package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// HugotScorer runs a local ONNX text-classification model. The pipeline is
// not safe for concurrent use; wrap it with backend.SerializeScorer.
type HugotScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

func NewHugotScorer(modelPath string) (*HugotScorer, error) {
	if modelPath == "" {
		return nil, errors.New("[HugotScorer] model path is empty")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("[HugotScorer] model not found at %s: %w", modelPath, err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotScorer] failed to initialize session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "feedbackSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("[HugotScorer] failed to initialize pipeline: %w", err)
	}

	slog.Info("[HugotScorer] Local sentiment model loaded", slog.String("path", modelPath))
	return &HugotScorer{session: session, pipeline: pipeline}, nil
}

func (h *HugotScorer) Score(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	output, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return "", fmt.Errorf("hugot pipeline: %w", err)
	}
	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return "", errors.New("hugot pipeline returned no labels")
	}

	best := output.ClassificationOutputs[0][0]
	for _, candidate := range output.ClassificationOutputs[0][1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}
	return best.Label, nil
}

func (h *HugotScorer) Close() error {
	if h.session == nil {
		return nil
	}
	return h.session.Destroy()
}
