package stream

import (
	"context"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}

type StreamProducer interface {
	Publish(ctx context.Context, req models.GradeRequest) (string, error)
	Close() error
}
