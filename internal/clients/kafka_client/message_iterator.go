package kafka_client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// MessageReader is satisfied by *kafka.Consumer.
type MessageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

type KafkaMessageIterator struct {
	reader      MessageReader
	ctx         context.Context
	pollTimeout time.Duration
	retryDelay  time.Duration
}

func NewKafkaMessageIterator(ctx context.Context, reader MessageReader) *KafkaMessageIterator {
	return &KafkaMessageIterator{
		reader:      reader,
		ctx:         ctx,
		pollTimeout: POLL_TIMEOUT,
		retryDelay:  RETRY_DELAY,
	}
}

// Next returns the next message, or (nil, nil) when the poll timed out
// with nothing to read so the caller can tend to its timers.
func (it *KafkaMessageIterator) Next() (*kafka.Message, error) {
	if it.reader == nil {
		return nil, errors.New("[KafkaIterator] Kafka consumer has not been initialized")
	}
	if err := it.ctx.Err(); err != nil {
		slog.Warn("[KafkaIterator] Context cancelled, stopping iterator")
		return nil, err
	}

	var msg *kafka.Message
	attempt := 0
	operation := func() error {
		attempt++
		m, err := it.reader.ReadMessage(it.pollTimeout)
		switch {
		case err == nil:
			msg = m
			return nil
		case isKafkaCode(err, kafka.ErrTimedOut):
			return nil
		case isKafkaCode(err, kafka.ErrAllBrokersDown):
			slog.Error("[KafkaIterator] All Kafka brokers are down. Aborting")
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("[KafkaIterator] Failed to read message, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", MAX_RETRIES),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}

	if err := backoff.RetryNotify(operation, retryPolicy(it.ctx, it.retryDelay), notify); err != nil {
		return nil, err
	}
	return msg, nil
}
