package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
	"google.golang.org/genai"
)

type Config struct {
	APIKey   string
	Project  string
	Location string
	ModelID  string
}

// Client serves Gemini models through the Gemini API or, when a project is set, Vertex AI.
type Client struct {
	Client  *genai.Client
	ModelID string
	Retry   llm.RetryPolicy
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("Gemini model ID is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Project != "" {
		clientConfig = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key or Vertex project is required")
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return &Client{
		Client:  client,
		ModelID: cfg.ModelID,
		Retry:   llm.DefaultRetryPolicy(),
	}, nil
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: request.Prompt}},
	}}

	output, err := c.Client.Models.GenerateContent(ctx, c.ModelID, contents, generationConfig(request))
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			err = llm.WithStatus(err, apiErr.Code)
		}
		return nil, fmt.Errorf("unable to invoke gemini model %s. Error: %w", c.ModelID, err)
	}

	return toResponse(output)
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return llm.WithRetry(ctx, c.Retry, request, c.InvokeModel)
}

func generationConfig(request llm.LLMRequest) *genai.GenerateContentConfig {
	temperature := float32(request.Temperature)
	return &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  int32(request.MaxTokens),
		ResponseMIMEType: "application/json",
	}
}

// toResponse concatenates the non-thought text parts of the first candidate.
func toResponse(output *genai.GenerateContentResponse) (*llm.LLMResponse, error) {
	if output == nil || len(output.Candidates) == 0 {
		return nil, fmt.Errorf("no content generated - no candidates")
	}

	candidate := output.Candidates[0]
	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}

	return &llm.LLMResponse{
		Content:    sb.String(),
		StopReason: string(candidate.FinishReason),
	}, nil
}
