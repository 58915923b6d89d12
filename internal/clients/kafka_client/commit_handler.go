package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// OffsetCommitter is satisfied by *kafka.Consumer.
type OffsetCommitter interface {
	CommitMessage(msg *kafka.Message) ([]kafka.TopicPartition, error)
}

type KafkaCommitHandler struct {
	consumer   OffsetCommitter
	retryDelay time.Duration
}

func NewCommitHandler(consumer OffsetCommitter) *KafkaCommitHandler {
	return &KafkaCommitHandler{
		consumer:   consumer,
		retryDelay: RETRY_DELAY,
	}
}

// Commit commits msg's offset, retrying transient failures until ctx is done.
func (ch *KafkaCommitHandler) Commit(ctx context.Context, msg *kafka.Message) error {
	if ch.consumer == nil {
		return errors.New("[KafkaCommitHandler] Kafka consumer has not been initialized")
	}
	if err := ctx.Err(); err != nil {
		slog.Warn("[KafkaCommitHandler] Context canceled, stopping commit")
		return err
	}

	attempt := 0
	operation := func() error {
		attempt++
		_, err := ch.consumer.CommitMessage(msg)
		if err == nil {
			return nil
		}
		if isKafkaCode(err, kafka.ErrAllBrokersDown) {
			slog.Error("[KafkaCommitHandler] All Kafka brokers are down. Aborting commit")
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("[KafkaCommitHandler] Failed to commit offset, retrying...",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
			slog.Int("partition", int(msg.TopicPartition.Partition)),
			slog.String("offset", msg.TopicPartition.Offset.String()))
	}

	if err := backoff.RetryNotify(operation, retryPolicy(ctx, ch.retryDelay), notify); err != nil {
		return fmt.Errorf("[KafkaCommitHandler] Failed to commit message after %d attempts: %w", attempt, err)
	}
	slog.Debug("[KafkaCommitHandler] Successfully committed offset",
		slog.Int("partition", int(msg.TopicPartition.Partition)),
		slog.String("offset", msg.TopicPartition.Offset.String()))
	return nil
}
