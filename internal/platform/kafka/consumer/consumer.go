// Package consumer runs an at-least-once Kafka consumer group. Offsets are committed
// only after every record of a poll has been handled, so a crash redelivers.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a consumed record, decoupled from the client library.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// MeldingID identifies the record by its broker coordinates (topic/partition/offset).
func (m *Message) MeldingID() string {
	return fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset)
}

// Handler processes one message. Returning an error makes the consumer retry it.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Config selects brokers, group and topics.
type Config struct {
	Brokers []string
	Group   string
	Topics  []string
}

// Consumer polls a consumer group and hands records to a Handler.
type Consumer struct {
	client   *kgo.Client
	handler  Handler
	logger   *slog.Logger
	retryMin time.Duration
	retryMax time.Duration
}

// New creates a consumer. Call Run to start polling and Close to leave the group.
func New(cfg Config, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka consumer: at least one broker is required")
	}
	if cfg.Group == "" || len(cfg.Topics) == 0 {
		return nil, errors.New("kafka consumer: group and topics are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{
		client:   client,
		handler:  handler,
		logger:   logger,
		retryMin: 200 * time.Millisecond,
		retryMax: 30 * time.Second,
	}, nil
}

// Run polls until ctx is cancelled. A handler error is retried with backoff; the
// offset does not advance past a record that has not been handled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		iter := fetches.RecordIter()
		for !iter.Done() {
			msg := toMessage(iter.Next())
			if err := c.handleWithRetry(ctx, msg); err != nil {
				return nil
			}
		}

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil && ctx.Err() == nil {
			c.logger.WarnContext(ctx, "kafka offset commit failed", "error", err)
		}
	}
}

// handleWithRetry only returns an error when ctx is done.
func (c *Consumer) handleWithRetry(ctx context.Context, msg *Message) error {
	wait := c.retryMin
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(ctx, msg)
		if err == nil {
			return nil
		}
		c.logger.ErrorContext(ctx, "kafka message handling failed",
			"melding_id", msg.MeldingID(),
			"attempt", attempt,
			"retry_in", wait,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > c.retryMax {
			wait = c.retryMax
		}
	}
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}

func toMessage(rec *kgo.Record) *Message {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Headers:   headers,
		Timestamp: rec.Timestamp,
	}
}
