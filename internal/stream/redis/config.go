package redis

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	ResultStream  string
	Group         string
	ConsumerName  string
}

func NewRedisStreamConfig(redisAddr, redisPassword, stream, resultStream, group, consumerName string) *RedisStreamConfig {
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		ResultStream:  resultStream,
		Group:         group,
		ConsumerName:  consumerName,
	}
}

// WithDefaults returns a copy with empty stream names filled in.
func (c RedisStreamConfig) WithDefaults(stream, resultStream, group string) RedisStreamConfig {
	if c.Stream == "" {
		c.Stream = stream
	}
	if c.ResultStream == "" {
		c.ResultStream = resultStream
	}
	if c.Group == "" {
		c.Group = group
	}
	if c.ConsumerName == "" {
		c.ConsumerName = "jury-consumer"
	}
	return c
}
