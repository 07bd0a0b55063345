package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Producer struct {
	client *redis.Client
	stream string
	logger *zerolog.Logger
}

func NewProducer(client *redis.Client, stream string, logger *zerolog.Logger) *Producer {
	return &Producer{client: client, stream: stream, logger: logger}
}

// Publish appends a request to the item stream and returns the stream entry id.
func (p *Producer) Publish(ctx context.Context, req models.GradeRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{payloadField: string(body)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", p.stream, err)
	}

	p.logger.Info().Str("stream", p.stream).Str("id", id).Str("item_id", req.ItemID).Msg("Published successfully!")
	return id, nil
}

func (p *Producer) Close() error {
	return p.client.Close()
}
