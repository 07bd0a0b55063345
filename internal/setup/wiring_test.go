package setup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/config"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/medsummary"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

const replayConfig = `jury:
  default_model:
    max_tokens: 600
    timeout: 5s
  judges:
    - key: oai
      enabled: true
      provider: replay
      model_name: openai/o4-mini-2025-04-16
    - key: claude
      enabled: true
      provider: replay
      model_name: anthropic/claude-sonnet-4-20250514
    - key: gemini
      enabled: true
      provider: replay
      model_name: google/gemini-2.5-pro
tasks:
  - name: completeness
    enabled: true
    default_score: 0.5
  - name: numbers_accurate
    enabled: false
`

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jury.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestWire_ReplayPanel(t *testing.T) {
	cfg := &Config{JuryConfigPath: writeConfig(t, replayConfig), DispatchTimeout: time.Second}

	deps, err := Wire(context.Background(), cfg, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}

	if deps.Panel.Len() != 3 {
		t.Errorf("Expected 3 judges, got %d", deps.Panel.Len())
	}

	tasks := deps.Executor.Tasks()
	want := []string{medsummary.CriterionDirection, medsummary.CriterionCompleteness}
	if strings.Join(tasks, ",") != strings.Join(want, ",") {
		t.Fatalf("Expected tasks %v, got %v", want, tasks)
	}

	metric, ok := deps.Executor.Metric(medsummary.CriterionCompleteness)
	if !ok || metric.DefaultScore != 0.5 {
		t.Errorf("Expected default score override 0.5, got %+v", metric)
	}
	metric, _ = deps.Executor.Metric(medsummary.CriterionDirection)
	if metric.DefaultScore != medsummary.DefaultScore {
		t.Errorf("Expected built-in default score, got %v", metric.DefaultScore)
	}
}

func TestWire_ReplayWithoutRecordingsDefaults(t *testing.T) {
	cfg := &Config{JuryConfigPath: writeConfig(t, replayConfig), DispatchTimeout: time.Second}

	deps, err := Wire(context.Background(), cfg, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}

	result, err := deps.Executor.ExecuteTask(context.Background(), "run-1", medsummary.CriterionCompleteness, models.GradeRequest{
		ItemID:          "item-1",
		TaskPrompt:      "abstract",
		CandidateOutput: "summary",
	})
	if err != nil {
		t.Fatalf("ExecuteTask failed: %v", err)
	}

	score, ok := result.Score(medsummary.CriterionCompleteness)
	if !ok {
		t.Fatal("Expected completeness score")
	}
	if score.Coverage != models.CoverageDefaulted || score.Score != 0.5 {
		t.Errorf("Expected defaulted 0.5, got %+v", score)
	}
}

func TestWire_MissingConfig(t *testing.T) {
	cfg := &Config{JuryConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}

	if _, err := Wire(context.Background(), cfg, Options{}, testLogger()); err == nil {
		t.Fatal("Expected error for missing config")
	}
}

func TestBuildExecutor_UnknownTask(t *testing.T) {
	juryCfg, err := config.ParseJuryConfig([]byte(strings.Replace(replayConfig, "name: numbers_accurate", "name: fluency", 1)))
	if err != nil {
		t.Fatalf("ParseJuryConfig failed: %v", err)
	}

	panel, err := judge.NewPanel(judge.NewStaticJudge(models.JudgeIdentity{Key: "oai"}, "{}"))
	if err != nil {
		t.Fatalf("NewPanel failed: %v", err)
	}

	_, err = BuildExecutor(juryCfg, panel, judge.NewDispatcher(time.Second, nil, testLogger()), nil, testLogger())
	if err == nil || !strings.Contains(err.Error(), "fluency") {
		t.Fatalf("Expected unknown task error, got %v", err)
	}
}

func TestClientFactory_UnknownProvider(t *testing.T) {
	factory := clientFactory(context.Background(), &Config{})

	if _, err := factory(config.JudgeConfig{Key: "x", Provider: "mistral"}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("JURY_CONFIG_PATH", "/tmp/jury.yaml")
	t.Setenv("JURY_DISPATCH_TIMEOUT", "15s")
	t.Setenv("POSTGRES_DB", "grading")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadConfig()

	if cfg.JuryConfigPath != "/tmp/jury.yaml" {
		t.Errorf("Expected config path from env, got %q", cfg.JuryConfigPath)
	}
	if cfg.DispatchTimeout != 15*time.Second {
		t.Errorf("Expected 15s timeout, got %v", cfg.DispatchTimeout)
	}
	if cfg.Postgres.Database != "grading" {
		t.Errorf("Expected database grading, got %q", cfg.Postgres.Database)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level, got %q", cfg.LogLevel)
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"90s", 90 * time.Second},
		{"soon", time.Minute},
		{"-5s", time.Minute},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.value)
		if got := getEnvDuration("TEST_DURATION", time.Minute); got != tt.want {
			t.Errorf("getEnvDuration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
