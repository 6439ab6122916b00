package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

const TriggerTopic = "inventory.events.v1"

const (
	retryBackoff    = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

// EventHandler processes one raw message payload. Returning an error makes the
// consumer retry the same message; later offsets wait behind it.
type EventHandler interface {
	HandleEvent(ctx context.Context, payload []byte) error
}

type Consumer struct {
	group   sarama.ConsumerGroup
	handler EventHandler
	logger  *slog.Logger
}

func NewConsumer(brokers []string, groupID string, handler EventHandler, logger *slog.Logger) (*Consumer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: g, handler: handler, logger: logger}, nil
}

// Run consumes until ctx is cancelled, rejoining after every rebalance.
func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		if err := c.group.Consume(ctx, topics, groupHandler{handler: c.handler, logger: c.logger, backoff: retryBackoff}); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler EventHandler
	logger  *slog.Logger
	backoff time.Duration
}

func (h groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if !h.retry(sess.Context(), message) {
			// session ended first; the message is redelivered from the committed offset
			return nil
		}
		sess.MarkMessage(message, "")
	}
	return nil
}

// retry handles message until it succeeds or ctx ends.
func (h groupHandler) retry(ctx context.Context, message *sarama.ConsumerMessage) bool {
	wait := h.backoff
	if wait <= 0 {
		wait = retryBackoff
	}
	for {
		if h.handle(ctx, message) {
			return true
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		wait = min(wait*2, maxRetryBackoff)
	}
}

func (h groupHandler) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	if err := h.handler.HandleEvent(ctx, message.Value); err != nil {
		if h.logger != nil {
			h.logger.Error("trigger event failed",
				"topic", message.Topic,
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err,
			)
		}
		return false
	}
	return true
}
