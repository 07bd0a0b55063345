package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
)

// Client serves Claude models through the Anthropic Messages API.
type Client struct {
	Client  anthropic.Client
	ModelID string
	Retry   llm.RetryPolicy
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("Anthropic model ID is required")
	}

	return &Client{
		Client: anthropic.NewClient(
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		),
		ModelID: model,
		Retry:   llm.DefaultRetryPolicy(),
	}, nil
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	message, err := c.Client.Messages.New(ctx, c.params(request))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			err = llm.WithStatus(err, apiErr.StatusCode)
		}
		return nil, fmt.Errorf("unable to invoke anthropic model %s. Error: %w", c.ModelID, err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &llm.LLMResponse{
		Content:    sb.String(),
		StopReason: string(message.StopReason),
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return llm.WithRetry(ctx, c.Retry, request, c.InvokeModel)
}

func (c *Client) params(request llm.LLMRequest) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(c.ModelID),
		MaxTokens: int64(request.MaxTokens),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(request.Prompt),
			},
		}},
		Temperature: anthropic.Float(request.Temperature),
	}
}
