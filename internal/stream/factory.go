package stream

import (
	"context"
	"fmt"

	red "github.com/povarna/generative-ai-agents/jury-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

func provider(cfg *StreamConfig) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("stream config is nil")
	}
	// If provider is empty, fall back to redis.
	p := cfg.Provider
	if p == "" {
		p = ProviderRedis
	}
	if p != ProviderRedis {
		return "", fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
	if cfg.RedisConfig == nil {
		return "", fmt.Errorf("redis config required")
	}
	return p, nil
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	grader redis.Grader,
	logger *zerolog.Logger,
) (StreamConsumer, error) {
	if _, err := provider(cfg); err != nil {
		return nil, err
	}
	rc := cfg.RedisConfig.WithDefaults(DefaultItemStream, DefaultResultStream, DefaultGroup)

	client, err := red.ConnectRedis(ctx, red.Options{Addr: rc.RedisAddr, Password: rc.RedisPassword}, 5, logger)
	if err != nil {
		return nil, err
	}

	return redis.NewConsumer(client, rc, grader, logger), nil
}

func NewStreamProducer(
	ctx context.Context,
	cfg *StreamConfig,
	logger *zerolog.Logger,
) (StreamProducer, error) {
	if _, err := provider(cfg); err != nil {
		return nil, err
	}
	rc := cfg.RedisConfig.WithDefaults(DefaultItemStream, DefaultResultStream, DefaultGroup)

	client, err := red.ConnectRedis(ctx, red.Options{Addr: rc.RedisAddr, Password: rc.RedisPassword}, 3, logger)
	if err != nil {
		return nil, err
	}

	return redis.NewProducer(client, rc.Stream, logger), nil
}
