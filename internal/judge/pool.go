package judge

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/config"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

// ClientFactory builds the model client behind one configured judge.
type ClientFactory func(cfg config.JudgeConfig) (llm.LLMClient, error)

// JudgePool builds a Panel from configuration.
type JudgePool struct {
	clients    ClientFactory
	recordings []Recording
	replayAll  bool
	recorder   Recorder
	logger     *zerolog.Logger
}

func NewJudgePool(clients ClientFactory, logger *zerolog.Logger) *JudgePool {
	return &JudgePool{
		clients: clients,
		logger:  logger,
	}
}

// WithRecordings lets judges with provider "replay" answer from recordings.
// With replayAll every judge does, whatever its provider, and no model client is created.
func (p *JudgePool) WithRecordings(recordings []Recording, replayAll bool) *JudgePool {
	p.recordings = recordings
	p.replayAll = replayAll
	return p
}

// WithRecorder records every answer of a model-backed judge.
func (p *JudgePool) WithRecorder(recorder Recorder) *JudgePool {
	p.recorder = recorder
	return p
}

func (p *JudgePool) BuildFromConfig(cfg *config.JuryConfig) (*Panel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("jury config is nil")
	}

	var judges []Judge

	for _, judgeCfg := range cfg.Jury.Judges {
		if !judgeCfg.Enabled {
			p.logger.Info().
				Str("judge", judgeCfg.Key).
				Msg("judge disabled in config, skipping")
			continue
		}

		if p.replayAll || judgeCfg.Provider == config.ProviderReplay {
			judges = append(judges, NewReplayJudge(identityOf(judgeCfg), p.recordings))
			p.logger.Info().
				Str("judge", judgeCfg.Key).
				Int("recordings", len(p.recordings)).
				Msg("replay judge created")
			continue
		}

		if p.clients == nil {
			return nil, fmt.Errorf("judge %s: no client factory configured", judgeCfg.Key)
		}
		client, err := p.clients(judgeCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for judge %s: %w", judgeCfg.Key, err)
		}

		llmJudge, err := NewLLMJudge(judgeCfg, client, p.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create judge %s: %w", judgeCfg.Key, err)
		}

		var judge Judge = llmJudge
		if p.recorder != nil {
			judge = NewRecordingJudge(llmJudge, p.recorder)
		}
		judges = append(judges, judge)

		p.logger.Info().
			Str("judge", judgeCfg.Key).
			Str("provider", judgeCfg.Provider).
			Str("model_name", judgeCfg.ModelName).
			Str("model_deployment", judgeCfg.ModelDeployment).
			Int("max_tokens", judgeCfg.Params.MaxTokens).
			Float64("temperature", judgeCfg.Params.Temperature).
			Bool("retry", judgeCfg.Params.Retry).
			Dur("timeout", judgeCfg.Params.Timeout).
			Msg("judge created successfully")
	}

	if len(judges) == 0 {
		return nil, fmt.Errorf("no enabled judges found in config")
	}

	panel, err := NewPanel(judges...)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("total_judges", panel.Len()).
		Strs("judges", panel.Keys()).
		Msg("judge panel built successfully")

	return panel, nil
}

func identityOf(cfg config.JudgeConfig) models.JudgeIdentity {
	return models.JudgeIdentity{
		Key:             cfg.Key,
		ModelName:       cfg.ModelName,
		ModelDeployment: cfg.ModelDeployment,
	}
}
