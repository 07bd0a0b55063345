package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/annotator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/config"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/executor"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm/anthropic"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm/gemini"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/medsummary"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/store"
	"github.com/rs/zerolog"
)

type Config struct {
	AWSRegion       string
	OpenAIKey       string
	AnthropicKey    string
	GeminiKey       string
	GoogleProject   string
	GoogleLocation  string
	JuryConfigPath  string
	LogLevel        string
	LogFormat       string
	DispatchTimeout time.Duration
	RedisAddr       string
	RedisPassword   string
	APIPort         string
	Postgres        store.Config
}

// Options change how the panel is built.
type Options struct {
	// Recordings answer judges with provider "replay", or every judge when ReplayAll is set.
	Recordings []judge.Recording
	ReplayAll  bool
	// Recorder, when set, receives every answer of a model-backed judge.
	Recorder judge.Recorder
}

type Dependencies struct {
	Executor *executor.Executor
	Panel    *judge.Panel
	Jury     *config.JuryConfig
	Observer *metrics.Observer
	Logger   *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
		GeminiKey:       getEnv("GEMINI_API_KEY", ""),
		GoogleProject:   getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleLocation:  getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		JuryConfigPath:  getEnv("JURY_CONFIG_PATH", config.DefaultConfigPath),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		DispatchTimeout: getEnvDuration("JURY_DISPATCH_TIMEOUT", judge.DefaultTimeout),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		APIPort:         getEnv("JURY_API_PORT", "18082"),
		Postgres: store.Config{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "jury"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
	}
}

func Wire(ctx context.Context, cfg *Config, opts Options, logger *zerolog.Logger) (*Dependencies, error) {
	juryCfg, err := config.LoadJuryConfigFrom(cfg.JuryConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load jury config: %w", err)
	}

	pool := judge.NewJudgePool(clientFactory(ctx, cfg), logger).
		WithRecordings(opts.Recordings, opts.ReplayAll).
		WithRecorder(opts.Recorder)

	panel, err := pool.BuildFromConfig(juryCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build judge panel: %w", err)
	}

	observer := metrics.NewObserver()
	dispatcher := judge.NewDispatcher(cfg.DispatchTimeout, observer, logger)

	exec, err := BuildExecutor(juryCfg, panel, dispatcher, observer, logger)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Executor: exec,
		Panel:    panel,
		Jury:     juryCfg,
		Observer: observer,
		Logger:   logger,
	}, nil
}

// BuildExecutor wires one annotator per enabled MedSummary task. Tasks missing from
// the jury config are enabled with their built-in default score.
func BuildExecutor(
	juryCfg *config.JuryConfig,
	panel *judge.Panel,
	dispatcher *judge.Dispatcher,
	observer executor.ScoreObserver,
	logger *zerolog.Logger,
) (*executor.Executor, error) {
	defs, err := medsummary.Definitions()
	if err != nil {
		return nil, fmt.Errorf("failed to load task definitions: %w", err)
	}

	known := make(map[string]bool, len(defs))
	var stages []executor.Stage
	for _, def := range defs {
		known[def.Task.Name] = true

		metric := def.Metric
		if taskCfg, ok := juryCfg.Task(def.Task.Name); ok {
			if !taskCfg.Enabled {
				logger.Info().Str("task", def.Task.Name).Msg("task disabled in config, skipping")
				continue
			}
			if taskCfg.DefaultScore != nil {
				metric.DefaultScore = *taskCfg.DefaultScore
			}
		}

		ann, err := annotator.New(def.Task, panel, dispatcher, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create annotator for %s: %w", def.Task.Name, err)
		}

		stages = append(stages, executor.Stage{
			Name:      def.Task.Name,
			Annotator: ann,
			Metric:    metric,
		})
	}

	for _, taskCfg := range juryCfg.Tasks {
		if !known[taskCfg.Name] {
			return nil, fmt.Errorf("unknown task %q in jury config", taskCfg.Name)
		}
	}

	return executor.NewExecutor(stages, observer, logger)
}

func clientFactory(ctx context.Context, cfg *Config) judge.ClientFactory {
	return func(jc config.JudgeConfig) (llm.LLMClient, error) {
		modelID := jc.ProviderModelID()

		switch jc.Provider {
		case config.ProviderBedrock:
			return bedrock.NewClient(ctx, cfg.AWSRegion, modelID)
		case config.ProviderOpenAI:
			return gpt.NewClient(cfg.OpenAIKey, modelID)
		case config.ProviderAnthropic:
			return anthropic.NewClient(cfg.AnthropicKey, modelID)
		case config.ProviderGemini:
			return gemini.NewClient(ctx, gemini.Config{
				APIKey:   cfg.GeminiKey,
				Project:  cfg.GoogleProject,
				Location: cfg.GoogleLocation,
				ModelID:  modelID,
			})
		default:
			return nil, fmt.Errorf("no model client for provider %q", jc.Provider)
		}
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
