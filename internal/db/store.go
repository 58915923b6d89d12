// Package db holds the feedback stores. The analysis pipeline only reads a
// snapshot through FeedbackSource; writes are for seeding.
package db

import (
	"context"

	"github.com/spacesedan/feedbackflow/internal/models"
)

type FeedbackSource interface {
	ListFeedback(ctx context.Context) ([]models.FeedbackEntry, error)
}

type FeedbackStore interface {
	FeedbackSource
	InsertFeedback(ctx context.Context, entries []models.FeedbackEntry) error
}

var (
	_ FeedbackStore  = (*PostgresStore)(nil)
	_ FeedbackStore  = (*DynamoStore)(nil)
	_ FeedbackSource = (*FileSource)(nil)
)
