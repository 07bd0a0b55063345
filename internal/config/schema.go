package config

import (
	"strings"
	"time"
)

// JuryConfig is the complete jury configuration loaded from YAML.
type JuryConfig struct {
	Jury  Jury         `yaml:"jury"`
	Tasks []TaskConfig `yaml:"tasks"`
}

// Jury holds the panel and the model parameters its judges inherit.
type Jury struct {
	DefaultModel ModelConfig   `yaml:"default_model"`
	Judges       []JudgeConfig `yaml:"judges"`
}

// ModelConfig is a partial set of model parameters. Unset fields inherit from default_model.
type ModelConfig struct {
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature *float64      `yaml:"temperature"`
	Retry       *bool         `yaml:"retry"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ModelParams is a fully resolved ModelConfig.
type ModelParams struct {
	MaxTokens   int
	Temperature float64
	Retry       bool
	Timeout     time.Duration
}

type JudgeConfig struct {
	Key             string       `yaml:"key"`
	Enabled         bool         `yaml:"enabled"`
	Provider        string       `yaml:"provider"`
	ModelName       string       `yaml:"model_name"`
	ModelDeployment string       `yaml:"model_deployment"`
	ModelID         string       `yaml:"model_id"`
	Model           *ModelConfig `yaml:"model"`

	// Params is populated by the loader from Model and the jury defaults.
	Params ModelParams `yaml:"-"`
}

// ProviderModelID is the identifier sent to the provider SDK. It defaults to the
// deployment name without its "vendor/" prefix.
func (j JudgeConfig) ProviderModelID() string {
	if j.ModelID != "" {
		return j.ModelID
	}
	deployment := j.ModelDeployment
	if deployment == "" {
		deployment = j.ModelName
	}
	if i := strings.Index(deployment, "/"); i >= 0 {
		return deployment[i+1:]
	}
	return deployment
}

type TaskConfig struct {
	Name         string   `yaml:"name"`
	Enabled      bool     `yaml:"enabled"`
	DefaultScore *float64 `yaml:"default_score"`
}

const (
	ProviderBedrock   = "bedrock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderReplay    = "replay"
)

var knownProviders = map[string]bool{
	ProviderBedrock:   true,
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderGemini:    true,
	ProviderReplay:    true,
}
