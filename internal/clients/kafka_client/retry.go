package kafka_client

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// retryPolicy allows MAX_RETRIES attempts in total, starting at delay and
// stopping early once ctx is done.
func retryPolicy(ctx context.Context, delay time.Duration) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = delay
	b.MaxInterval = 4 * RETRY_DELAY
	return backoff.WithContext(backoff.WithMaxRetries(b, MAX_RETRIES-1), ctx)
}

func isKafkaCode(err error, code kafka.ErrorCode) bool {
	var kafkaErr kafka.Error
	return errors.As(err, &kafkaErr) && kafkaErr.Code() == code
}
