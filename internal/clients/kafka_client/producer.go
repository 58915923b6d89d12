package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client/utils"
)

// MessageProducer is satisfied by *kafka.Producer.
type MessageProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// ResultProducer publishes analysis reports and waits for the broker to
// acknowledge each one.
type ResultProducer struct {
	producer MessageProducer
	topic    string
}

func NewResultProducer(cfg KafkaConfig) (*ResultProducer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("topic", cfg.ResultTopic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return NewResultProducerWith(p, cfg.ResultTopic), nil
}

func NewResultProducerWith(producer MessageProducer, topic string) *ResultProducer {
	return &ResultProducer{producer: producer, topic: topic}
}

func (p *ResultProducer) Publish(ctx context.Context, key string, value any) error {
	data, err := utils.SerializeToJSON(value)
	if err != nil {
		return err
	}

	topic := p.topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          data,
	}

	delivery := make(chan kafka.Event, 1)
	for i := 0; i < 3; i++ {
		err = p.producer.Produce(msg, delivery)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce to %s: %w", topic, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-delivery:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery to %s failed: %w", topic, m.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published message",
		slog.String("topic", topic),
		slog.String("key", key))
	return nil
}

func (p *ResultProducer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
