package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/stream"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

func main() {
	data := flag.String("d", "", "Inline JSON GradeRequest")
	streamName := flag.String("stream", stream.DefaultItemStream, "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	lg := logger.New("info", "console")

	if err := run(*data, *streamName, &lg); err != nil {
		lg.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, streamName string, lg *zerolog.Logger) error {
	_ = godotenv.Load()

	var req models.GradeRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return fmt.Errorf("invalid grade request: %w", err)
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	producer, err := stream.NewStreamProducer(ctx, &stream.StreamConfig{
		RedisConfig: redis.NewRedisStreamConfig(addr, os.Getenv("REDIS_PASSWORD"), streamName, "", "", ""),
	}, lg)
	if err != nil {
		return err
	}
	defer producer.Close()

	id, err := producer.Publish(ctx, req)
	if err != nil {
		return err
	}

	lg.Info().Str("stream", streamName).Str("id", id).Str("item_id", req.ItemID).Msg("Grade request queued")
	return nil
}
