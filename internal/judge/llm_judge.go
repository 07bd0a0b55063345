package judge

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/config"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

// LLMJudge answers prompts by calling a single model through an llm.LLMClient.
type LLMJudge struct {
	identity  models.JudgeIdentity
	params    config.ModelParams
	llmClient llm.LLMClient
	logger    *zerolog.Logger
}

func NewLLMJudge(
	judgeCfg config.JudgeConfig,
	llmClient llm.LLMClient,
	logger *zerolog.Logger,
) (*LLMJudge, error) {
	if judgeCfg.Key == "" {
		return nil, fmt.Errorf("judge key is required")
	}
	if llmClient == nil {
		return nil, fmt.Errorf("judge %s has no llm client", judgeCfg.Key)
	}

	return &LLMJudge{
		identity:  identityOf(judgeCfg),
		params:    judgeCfg.Params,
		llmClient: llmClient,
		logger:    logger,
	}, nil
}

func (j *LLMJudge) Identity() models.JudgeIdentity {
	return j.identity
}

// Timeout is the per-call deadline the dispatcher applies to this judge.
func (j *LLMJudge) Timeout() time.Duration {
	return j.params.Timeout
}

func (j *LLMJudge) Infer(ctx context.Context, prompt string) (string, error) {
	request := llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   j.params.MaxTokens,
		Temperature: j.params.Temperature,
	}

	var (
		resp *llm.LLMResponse
		err  error
	)
	if j.params.Retry {
		resp, err = j.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = j.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		return "", fmt.Errorf("judge %s: %w", j.identity.Key, err)
	}
	if resp == nil {
		return "", fmt.Errorf("judge %s: empty response from model", j.identity.Key)
	}

	switch resp.StopReason {
	case "max_tokens", "length", "MAX_TOKENS":
		j.logger.Warn().
			Str("judge", j.identity.Key).
			Str("stop_reason", resp.StopReason).
			Int("max_tokens", j.params.MaxTokens).
			Msg("judge response truncated")
	}

	return resp.Content, nil
}
