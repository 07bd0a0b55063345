package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const payloadField = "payload"

// Grader grades one request.
type Grader interface {
	Execute(ctx context.Context, runID string, req models.GradeRequest) (models.ItemResult, error)
}

// Consumer reads GradeRequests from a stream with a consumer group and publishes
// each ItemResult to the result stream before acknowledging the request.
type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	grader       Grader
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg RedisStreamConfig, grader Grader, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		grader:       grader,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", c.groupID, err)
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("result_stream", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	result, err := handle(ctx, c.grader, msg)
	if interrupted(ctx, err) {
		c.logger.Warn().Err(err).Str("id", msg.ID).Msg("Grading interrupted, leaving message pending")
		return
	}
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to grade message")
	}

	if result.ItemID != "" {
		if pubErr := c.publish(ctx, result); pubErr != nil {
			// leave it pending so it is redelivered
			c.logger.Error().Err(pubErr).Str("id", msg.ID).Msg("Failed to publish result")
			return
		}
	}

	c.ack(ctx, msg.ID)
}

// handle decodes one message and grades it. A message that cannot be decoded
// yields an empty result and an error.
func handle(ctx context.Context, grader Grader, msg redis.XMessage) (models.ItemResult, error) {
	req, err := decodeRequest(msg)
	if err != nil {
		return models.ItemResult{}, err
	}

	result, err := grader.Execute(ctx, "", req)
	if err != nil {
		if result.ItemID == "" {
			result.ItemID = req.ItemID
		}
		result.Error = err.Error()
	}
	return result, err
}

// interrupted reports whether grading stopped because the consumer is shutting down.
// Such messages stay pending so another consumer can redeliver them.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func decodeRequest(msg redis.XMessage) (models.GradeRequest, error) {
	var req models.GradeRequest

	payload, ok := msg.Values[payloadField].(string)
	if !ok {
		return req, fmt.Errorf("message %s: missing %s field", msg.ID, payloadField)
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return req, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	if req.ItemID == "" {
		req.ItemID = msg.ID
	}
	return req, nil
}

func (c *Consumer) publish(ctx context.Context, result models.ItemResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}

	id, err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{payloadField: string(body), "item_id": result.ItemID},
	}).Result()
	if err != nil {
		return err
	}

	c.logger.Info().
		Str("item_id", result.ItemID).
		Str("result_id", id).
		Int("scores", len(result.Scores)).
		Msg("Result published")
	return nil
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
