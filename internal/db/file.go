package db

import (
	"context"
	"fmt"
	"os"

	"github.com/spacesedan/feedbackflow/internal/models"
	"gopkg.in/yaml.v3"
)

// FileSource reads feedback from a YAML or JSON list on every call, so each
// analysis still sees a fresh snapshot of the file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) ListFeedback(ctx context.Context) ([]models.FeedbackEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read feedback file: %w", err)
	}

	entries := []models.FeedbackEntry{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse feedback file %s: %w", f.path, err)
	}
	for i := range entries {
		if entries[i].ID == 0 {
			entries[i].ID = int64(i + 1)
		}
	}
	return entries, nil
}
