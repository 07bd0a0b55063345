package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

const DefaultConfigPath = "configs/jury.yaml"

// LoadJuryConfig reads the file named by JURY_CONFIG_PATH, or configs/jury.yaml.
func LoadJuryConfig() (*JuryConfig, error) {
	path := os.Getenv("JURY_CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadJuryConfigFrom(path)
}

func LoadJuryConfigFrom(path string) (*JuryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseJuryConfig(data)
}

func ParseJuryConfig(data []byte) (*JuryConfig, error) {
	var cfg JuryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid jury config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *JuryConfig) {
	def := &cfg.Jury.DefaultModel
	if def.MaxTokens == 0 {
		def.MaxTokens = 600
	}
	if def.Temperature == nil {
		zero := 0.0
		def.Temperature = &zero
	}
	if def.Retry == nil {
		retry := true
		def.Retry = &retry
	}
	if def.Timeout == 0 {
		def.Timeout = 60 * time.Second
	}

	for i := range cfg.Jury.Judges {
		judge := &cfg.Jury.Judges[i]
		if judge.ModelDeployment == "" {
			judge.ModelDeployment = judge.ModelName
		}
		judge.Params = merge(*def, judge.Model)
	}
}

func merge(def ModelConfig, override *ModelConfig) ModelParams {
	params := ModelParams{
		MaxTokens:   def.MaxTokens,
		Temperature: *def.Temperature,
		Retry:       *def.Retry,
		Timeout:     def.Timeout,
	}
	if override == nil {
		return params
	}

	if override.MaxTokens != 0 {
		params.MaxTokens = override.MaxTokens
	}
	if override.Temperature != nil {
		params.Temperature = *override.Temperature
	}
	if override.Retry != nil {
		params.Retry = *override.Retry
	}
	if override.Timeout != 0 {
		params.Timeout = override.Timeout
	}
	return params
}

func (c *JuryConfig) Validate() error {
	enabled := 0
	keys := make(map[string]bool, len(c.Jury.Judges))

	for _, judge := range c.Jury.Judges {
		if judge.Key == "" {
			return fmt.Errorf("judge key is required")
		}
		if keys[judge.Key] {
			return fmt.Errorf("duplicate judge key %q", judge.Key)
		}
		keys[judge.Key] = true

		if !knownProviders[judge.Provider] {
			return fmt.Errorf("judge %s: unknown provider %q", judge.Key, judge.Provider)
		}
		if judge.ModelName == "" {
			return fmt.Errorf("judge %s: model_name is required", judge.Key)
		}
		if judge.Params.MaxTokens <= 0 {
			return fmt.Errorf("judge %s: max_tokens must be positive", judge.Key)
		}
		if judge.Params.Temperature < 0 || judge.Params.Temperature > 2 {
			return fmt.Errorf("judge %s: temperature %f out of range [0, 2]", judge.Key, judge.Params.Temperature)
		}
		if judge.Params.Timeout <= 0 {
			return fmt.Errorf("judge %s: timeout must be positive", judge.Key)
		}

		if judge.Enabled {
			enabled++
		}
	}

	if enabled == 0 {
		return fmt.Errorf("no judges configured")
	}

	tasks := make(map[string]bool, len(c.Tasks))
	for _, task := range c.Tasks {
		if task.Name == "" {
			return fmt.Errorf("task name is required")
		}
		if tasks[task.Name] {
			return fmt.Errorf("duplicate task %q", task.Name)
		}
		tasks[task.Name] = true
	}

	return nil
}

// EnabledJudges returns the enabled judges in configuration order.
func (c *JuryConfig) EnabledJudges() []JudgeConfig {
	var judges []JudgeConfig
	for _, judge := range c.Jury.Judges {
		if judge.Enabled {
			judges = append(judges, judge)
		}
	}
	return judges
}

// Task returns the configuration of the named task, if any.
func (c *JuryConfig) Task(name string) (TaskConfig, bool) {
	for _, task := range c.Tasks {
		if task.Name == name {
			return task, true
		}
	}
	return TaskConfig{}, false
}
