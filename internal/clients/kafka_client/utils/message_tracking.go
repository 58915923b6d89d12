package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type partitionKey struct {
	topic     string
	partition int32
}

// OffsetTracker keeps the furthest message seen on each topic partition, so
// a batch needs one commit per partition.
type OffsetTracker struct {
	mu     sync.Mutex
	latest map[partitionKey]*kafka.Message
}

func NewOffsetTracker() *OffsetTracker {
	return &OffsetTracker{latest: make(map[partitionKey]*kafka.Message)}
}

func (t *OffsetTracker) Track(msg *kafka.Message) {
	if msg == nil {
		return
	}
	key := partitionKey{partition: msg.TopicPartition.Partition}
	if msg.TopicPartition.Topic != nil {
		key.topic = *msg.TopicPartition.Topic
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.latest[key]; !ok || msg.TopicPartition.Offset > prev.TopicPartition.Offset {
		t.latest[key] = msg
	}
}

// Drain returns the tracked messages and forgets them.
func (t *OffsetTracker) Drain() []*kafka.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.latest) == 0 {
		return nil
	}
	out := make([]*kafka.Message, 0, len(t.latest))
	for _, msg := range t.latest {
		out = append(out, msg)
	}
	t.latest = make(map[partitionKey]*kafka.Message)
	return out
}

func (t *OffsetTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.latest)
}
