package db

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const (
	FEEDBACK_TABLE_NAME = "Feedback"

	maxBatchSize     = 25
	maxBatchRetries  = 3
	unprocessedPause = 500 * time.Millisecond
)

type DynamoAPI interface {
	dynamodb.ScanAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type DynamoStore struct {
	client DynamoAPI
	table  string
	pause  time.Duration
}

func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	if table == "" {
		table = FEEDBACK_TABLE_NAME
	}
	return &DynamoStore{client: client, table: table, pause: unprocessedPause}
}

// ListFeedback scans the table. Scans are unordered, so entries are sorted
// by id to keep snapshots comparable between runs.
func (s *DynamoStore) ListFeedback(ctx context.Context) ([]models.FeedbackEntry, error) {
	var entries []models.FeedbackEntry
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for feedback failed: %w", err)
		}
		var page []models.FeedbackEntry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal feedback page", slog.String("error", err.Error()))
			return nil, err
		}
		entries = append(entries, page...)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	slog.Debug("[DynamoDB] Loaded feedback snapshot", slog.Int("count", len(entries)))
	return entries, nil
}

func (s *DynamoStore) InsertFeedback(ctx context.Context, entries []models.FeedbackEntry) error {
	for i := 0; i < len(entries); i += maxBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(i+maxBatchSize, len(entries))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, entry := range entries[i:end] {
			item, err := attributevalue.MarshalMap(entry)
			if err != nil {
				return fmt.Errorf("[DynamoDB] failed to marshal feedback %d: %w", entry.ID, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}
	slog.Info("[DynamoDB] Inserted feedback", slog.Int("count", len(entries)))
	return nil
}

func (s *DynamoStore) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{s.table: requests},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write feedback: %w", err)
	}

	pause := s.pause
	for retry := 0; len(out.UnprocessedItems) > 0 && retry < maxBatchRetries; retry++ {
		slog.Warn("[DynamoDB] Retrying unprocessed feedback items...",
			slog.Int("attempt", retry+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
		pause *= 2

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error: %w", err)
		}
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d feedback items not written after retries", remaining)
	}
	return nil
}
