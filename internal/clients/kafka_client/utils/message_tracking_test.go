package utils

import (
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

func message(topic string, partition int32, offset int64) *kafka.Message {
	return &kafka.Message{TopicPartition: kafka.TopicPartition{
		Topic:     &topic,
		Partition: partition,
		Offset:    kafka.Offset(offset),
	}}
}

func TestOffsetTrackerKeepsFurthestPerPartition(t *testing.T) {
	tr := NewOffsetTracker()
	tr.Track(message("requests", 0, 4))
	tr.Track(message("requests", 0, 2))
	tr.Track(message("requests", 1, 7))
	tr.Track(nil)

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}

	got := map[int32]kafka.Offset{}
	for _, msg := range tr.Drain() {
		got[msg.TopicPartition.Partition] = msg.TopicPartition.Offset
	}
	if got[0] != 4 || got[1] != 7 {
		t.Fatalf("offsets = %v", got)
	}
	if tr.Drain() != nil {
		t.Fatal("Drain should forget tracked messages")
	}
}

func TestJSONHelpers(t *testing.T) {
	data, err := SerializeToJSON(struct {
		ID string `json:"request_id"`
	}{ID: "r1"})
	if err != nil || string(data) != `{"request_id":"r1"}` {
		t.Fatalf("SerializeToJSON = %s, %v", data, err)
	}

	var out map[string]string
	if err := DeserializeFromJSON([]byte("not json"), &out); err == nil {
		t.Fatal("expected error")
	}
}
