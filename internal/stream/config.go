package stream

import "github.com/povarna/generative-ai-agents/jury-agent/internal/stream/redis"

const (
	ProviderRedis = "redis"

	DefaultItemStream   = "jury-items"
	DefaultResultStream = "jury-results"
	DefaultGroup        = "jury-group"
)

type StreamConfig struct {
	Provider    string // only redis today
	RedisConfig *redis.RedisStreamConfig
}
