package consumers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackflow/internal/models"
)

type fakeSource struct {
	entries []models.FeedbackEntry
	err     error
	calls   int
}

func (s *fakeSource) ListFeedback(context.Context) ([]models.FeedbackEntry, error) {
	s.calls++
	return s.entries, s.err
}

type fakeAnalyzer struct{ seen [][]models.FeedbackEntry }

func (a *fakeAnalyzer) Analyze(_ context.Context, entries []models.FeedbackEntry) models.AnalysisResult {
	a.seen = append(a.seen, entries)
	return models.AnalysisResult{Recommendation: "Fix the crashes."}
}

type fakePublisher struct {
	reports []models.AnalysisReport
	err     error
}

func (p *fakePublisher) Publish(_ context.Context, key string, value any) error {
	if p.err != nil {
		return p.err
	}
	report := value.(models.AnalysisReport)
	if key != report.RunID {
		return errors.New("key should be the run id")
	}
	p.reports = append(p.reports, report)
	return nil
}

type fakeCommitter struct{ committed []*kafka.Message }

func (c *fakeCommitter) Commit(ctx context.Context, msg *kafka.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.committed = append(c.committed, msg)
	return nil
}

func request(partition int32, offset int64, value string) *kafka.Message {
	topic := "feedback-analysis-requests"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: partition, Offset: kafka.Offset(offset)},
		Value:          []byte(value),
	}
}

func newTestConsumer(source *fakeSource, pub *fakePublisher) (*AnalysisRequestConsumer, *fakeAnalyzer, *fakeCommitter) {
	analyzer := &fakeAnalyzer{}
	committer := &fakeCommitter{}
	return NewAnalysisRequestConsumer(source, analyzer, pub, committer, time.Second), analyzer, committer
}

func TestProcessBatchCoalescesRequests(t *testing.T) {
	source := &fakeSource{entries: []models.FeedbackEntry{{ID: 1, Name: "Alice", Text: "Great", Rating: 5}}}
	pub := &fakePublisher{}
	c, analyzer, committer := newTestConsumer(source, pub)

	c.Enqueue(request(0, 1, `{"request_id":"a"}`))
	c.Enqueue(request(0, 2, `{"request_id":"b"}`))
	c.Enqueue(request(1, 9, `{"request_id":"c"}`))

	if err := c.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if source.calls != 1 || len(analyzer.seen) != 1 {
		t.Fatalf("snapshot fetched %d times, analyzed %d times", source.calls, len(analyzer.seen))
	}
	if len(pub.reports) != 1 {
		t.Fatalf("reports = %d", len(pub.reports))
	}
	report := pub.reports[0]
	if len(report.RequestIDs) != 3 || report.EntryCount != 1 || report.RunID == "" {
		t.Fatalf("report = %+v", report)
	}
	if report.Result.Recommendation != "Fix the crashes." {
		t.Fatalf("result = %+v", report.Result)
	}
	if len(committer.committed) != 2 {
		t.Fatalf("commits = %d, want one per partition", len(committer.committed))
	}
}

func TestProcessBatchFailureKeepsRequests(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	pub := &fakePublisher{}
	c, _, committer := newTestConsumer(source, pub)

	c.Enqueue(request(0, 1, `{"request_id":"a"}`))
	if err := c.ProcessBatch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(committer.committed) != 0 {
		t.Fatal("offsets committed despite failure")
	}

	source.err = nil
	if err := c.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(pub.reports) != 1 || pub.reports[0].RequestIDs[0] != "a" {
		t.Fatalf("reports = %+v", pub.reports)
	}
	if len(committer.committed) != 1 {
		t.Fatalf("commits = %d", len(committer.committed))
	}
}

func TestProcessBatchPublishFailureKeepsRequests(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker gone")}
	c, _, committer := newTestConsumer(&fakeSource{}, pub)

	c.Enqueue(request(0, 1, `{"request_id":"a"}`))
	if err := c.ProcessBatch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if c.requests.Size() != 1 || c.offsets.Len() != 1 || len(committer.committed) != 0 {
		t.Fatal("request should be kept for the next window")
	}
}

func TestMalformedRequestIsCommittedWithoutAnalysis(t *testing.T) {
	source := &fakeSource{}
	pub := &fakePublisher{}
	c, _, committer := newTestConsumer(source, pub)

	c.Enqueue(request(0, 3, `not json`))
	if err := c.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if source.calls != 0 || len(pub.reports) != 0 {
		t.Fatal("malformed request should not trigger analysis")
	}
	if len(committer.committed) != 1 {
		t.Fatalf("commits = %d", len(committer.committed))
	}
}

func TestRequestIDFallsBackToKey(t *testing.T) {
	c, _, _ := newTestConsumer(&fakeSource{}, &fakePublisher{})

	msg := request(0, 1, `{}`)
	msg.Key = []byte("from-key")
	c.Enqueue(msg)
	c.Enqueue(request(0, 2, `{}`))

	reqs := c.requests.GetAndClear()
	if reqs[0].RequestID != "from-key" || reqs[1].RequestID == "" {
		t.Fatalf("requests = %+v", reqs)
	}
}

type sliceIterator struct {
	msgs   []*kafka.Message
	cancel context.CancelFunc
}

func (it *sliceIterator) Next() (*kafka.Message, error) {
	if len(it.msgs) == 0 {
		it.cancel()
		return nil, nil
	}
	msg := it.msgs[0]
	it.msgs = it.msgs[1:]
	return msg, nil
}

func TestRunFlushesOnShutdown(t *testing.T) {
	pub := &fakePublisher{}
	c, _, committer := newTestConsumer(&fakeSource{}, pub)

	ctx, cancel := context.WithCancel(context.Background())
	it := &sliceIterator{msgs: []*kafka.Message{request(0, 1, `{"request_id":"a"}`)}, cancel: cancel}

	if err := c.Run(ctx, it); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pub.reports) != 1 || len(committer.committed) != 1 {
		t.Fatalf("reports = %d, commits = %d", len(pub.reports), len(committer.committed))
	}
}

type recordingOffsets struct{ offsets []kafka.Offset }

func (r *recordingOffsets) CommitMessage(msg *kafka.Message) ([]kafka.TopicPartition, error) {
	r.offsets = append(r.offsets, msg.TopicPartition.Offset)
	return []kafka.TopicPartition{msg.TopicPartition}, nil
}

func TestRunCommitsOffsetsOnShutdown(t *testing.T) {
	pub := &fakePublisher{}
	offsets := &recordingOffsets{}
	c := NewAnalysisRequestConsumer(&fakeSource{}, &fakeAnalyzer{}, pub, kafka_client.NewCommitHandler(offsets), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	it := &sliceIterator{msgs: []*kafka.Message{request(0, 7, `{"request_id":"a"}`)}, cancel: cancel}

	if err := c.Run(ctx, it); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pub.reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(pub.reports))
	}
	if len(offsets.offsets) != 1 || offsets.offsets[0] != 7 {
		t.Fatalf("committed offsets = %v, want [7]", offsets.offsets)
	}
}

type failingIterator struct{}

func (failingIterator) Next() (*kafka.Message, error) { return nil, errors.New("brokers down") }

func TestRunStopsOnIteratorError(t *testing.T) {
	c, _, _ := newTestConsumer(&fakeSource{}, &fakePublisher{})
	if err := c.Run(context.Background(), failingIterator{}); err == nil {
		t.Fatal("expected error")
	}
}
