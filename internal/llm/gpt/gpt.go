package gpt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	output, err := c.Client.Chat.Completions.New(ctx, c.params(request))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			err = llm.WithStatus(err, apiErr.StatusCode)
		}
		return nil, fmt.Errorf("unable to invoke gpt model %s. Error: %w", c.ModelID, err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	response := output.Choices[0]
	return &llm.LLMResponse{
		Content:    response.Message.Content,
		StopReason: fmt.Sprint(response.FinishReason),
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return llm.WithRetry(ctx, c.Retry, request, c.InvokeModel)
}

func (c *Client) params(request llm.LLMRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(request.MaxTokens)),
		Model:               openai.ChatModel(c.ModelID),
	}

	// o-series reasoning models only accept the default temperature.
	if !isReasoningModel(c.ModelID) {
		params.Temperature = openai.Float(request.Temperature)
	}
	return params
}

func isReasoningModel(model string) bool {
	return len(model) > 1 && model[0] == 'o' && model[1] >= '0' && model[1] <= '9' ||
		strings.HasPrefix(model, "gpt-5")
}
