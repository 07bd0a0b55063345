package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
)

type Client struct {
	Client  openai.Client
	ModelID string
	Retry   llm.RetryPolicy
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	// SDK level retries are off; InvokeModelWithRetry owns the policy.
	openaiClient := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &Client{
		Client:  openaiClient,
		ModelID: model,
		Retry:   llm.DefaultRetryPolicy(),
	}, nil
}
