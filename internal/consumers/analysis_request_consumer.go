// Package consumers drives the pipeline from Kafka analysis requests.
package consumers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	kafkautils "github.com/spacesedan/feedbackflow/internal/clients/kafka_client/utils"
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/utils"
)

const (
	DEFAULT_BATCH_WINDOW = 5 * time.Second
	shutdownFlushTimeout = 30 * time.Second
)

type Analyzer interface {
	Analyze(ctx context.Context, entries []models.FeedbackEntry) models.AnalysisResult
}

type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

type Committer interface {
	Commit(ctx context.Context, msg *kafka.Message) error
}

type MessageIterator interface {
	Next() (*kafka.Message, error)
}

// AnalysisRequestConsumer coalesces every request that arrives within one
// batch window into a single analysis of the current snapshot. Offsets are
// committed only after the report is published.
type AnalysisRequestConsumer struct {
	source    db.FeedbackSource
	analyzer  Analyzer
	publisher Publisher
	committer Committer
	window    time.Duration

	requests *utils.BatchBuffer[models.AnalysisRequest]
	offsets  *kafkautils.OffsetTracker
	batchMu  sync.Mutex
}

func NewAnalysisRequestConsumer(source db.FeedbackSource, analyzer Analyzer, publisher Publisher, committer Committer, window time.Duration) *AnalysisRequestConsumer {
	if window <= 0 {
		window = DEFAULT_BATCH_WINDOW
	}
	return &AnalysisRequestConsumer{
		source:    source,
		analyzer:  analyzer,
		publisher: publisher,
		committer: committer,
		window:    window,
		requests:  utils.NewBatchBuffer[models.AnalysisRequest](0),
		offsets:   kafkautils.NewOffsetTracker(),
	}
}

func (c *AnalysisRequestConsumer) Run(ctx context.Context, iterator MessageIterator) error {
	slog.Info("[AnalysisRequestConsumer] Listening for analysis requests",
		slog.Duration("batch_window", c.window))

	ticker := time.NewTicker(c.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[AnalysisRequestConsumer] Stopping consumer...")
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
			defer cancel()
			if err := c.ProcessBatch(flushCtx); err != nil {
				slog.Error("[AnalysisRequestConsumer] Final batch failed", slog.String("error", err.Error()))
			}
			return nil
		case <-ticker.C:
			if err := c.ProcessBatch(ctx); err != nil {
				slog.Error("[AnalysisRequestConsumer] Batch failed, requests kept for the next window",
					slog.String("error", err.Error()))
			}
		default:
			msg, err := iterator.Next()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				kafkautils.HandleConsumerError(err)
				return err
			}
			if msg == nil {
				continue
			}
			c.Enqueue(msg)
		}
	}
}

// Enqueue records a request message. Undecodable messages are still
// tracked so their offsets get committed instead of being redelivered forever.
func (c *AnalysisRequestConsumer) Enqueue(msg *kafka.Message) {
	c.offsets.Track(msg)

	var req models.AnalysisRequest
	if err := kafkautils.DeserializeFromJSON(msg.Value, &req); err != nil {
		slog.Warn("[AnalysisRequestConsumer] Dropping malformed request",
			slog.String("key", string(msg.Key)))
		return
	}
	if req.RequestID == "" {
		req.RequestID = string(msg.Key)
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	c.requests.Add(req)
	slog.Debug("[AnalysisRequestConsumer] Request queued",
		slog.String("request_id", req.RequestID),
		slog.Int("pending", c.requests.Size()))
}

// ProcessBatch analyzes one fresh snapshot for all pending requests and
// publishes a single report. On failure the requests and offsets are put
// back for the next window.
func (c *AnalysisRequestConsumer) ProcessBatch(ctx context.Context) error {
	c.batchMu.Lock()
	defer c.batchMu.Unlock()

	requests := c.requests.GetAndClear()
	messages := c.offsets.Drain()
	if len(requests) == 0 {
		c.commit(ctx, messages)
		return nil
	}

	report, err := c.analyze(ctx, requests)
	if err == nil {
		err = c.publisher.Publish(ctx, report.RunID, report)
	}
	if err != nil {
		c.requests.Add(requests...)
		for _, msg := range messages {
			c.offsets.Track(msg)
		}
		return err
	}

	slog.Info("[AnalysisRequestConsumer] Published analysis report",
		slog.String("run_id", report.RunID),
		slog.Int("requests", len(requests)),
		slog.Int("entries", report.EntryCount))
	c.commit(ctx, messages)
	return nil
}

func (c *AnalysisRequestConsumer) analyze(ctx context.Context, requests []models.AnalysisRequest) (models.AnalysisReport, error) {
	entries, err := c.source.ListFeedback(ctx)
	if err != nil {
		return models.AnalysisReport{}, err
	}

	ids := make([]string, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.RequestID)
	}

	return models.AnalysisReport{
		RunID:      uuid.NewString(),
		RequestIDs: ids,
		EntryCount: len(entries),
		AnalyzedAt: time.Now().UTC(),
		Result:     c.analyzer.Analyze(ctx, entries),
	}, nil
}

func (c *AnalysisRequestConsumer) commit(ctx context.Context, messages []*kafka.Message) {
	for _, msg := range messages {
		if err := c.committer.Commit(ctx, msg); err != nil {
			slog.Warn("[AnalysisRequestConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}
