package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/stream"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/stream/redis"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Logger = lg

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, setup.Options{}, &lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	streamCfg := &stream.StreamConfig{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewRedisStreamConfig(
			cfg.RedisAddr,
			cfg.RedisPassword,
			os.Getenv("JURY_ITEM_STREAM"),
			os.Getenv("JURY_RESULT_STREAM"),
			os.Getenv("JURY_CONSUMER_GROUP"),
			os.Getenv("HOSTNAME"),
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Executor, &lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		lg.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	// Start consumer
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	lg.Info().Msg("Shutting down...")

	if err := consumer.Stop(); err != nil {
		lg.Warn().Err(err).Msg("Failed to stop consumer cleanly")
	}
	lg.Info().Msg("Jury Agent stopped")
}
