package llm

import (
	"context"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks . LLMClient

// LLMClient invokes one backing model. Every judge provider implements it.
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
	InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}
