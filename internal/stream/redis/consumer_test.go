package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/redis/go-redis/v9"
)

type stubGrader struct {
	got models.GradeRequest
	err error
}

func (g *stubGrader) Execute(ctx context.Context, runID string, req models.GradeRequest) (models.ItemResult, error) {
	g.got = req
	if g.err != nil {
		return models.ItemResult{}, g.err
	}
	return models.ItemResult{ItemID: req.ItemID, Scores: []models.AggregatedScore{{Criterion: "completeness", Score: 1}}}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		msg        redis.XMessage
		graderErr  error
		wantErr    bool
		wantItemID string
		wantScores int
	}{
		{
			name:       "valid payload",
			msg:        redis.XMessage{ID: "1-0", Values: map[string]any{"payload": `{"item_id":"s-1","task_prompt":"q","candidate_output":"r"}`}},
			wantItemID: "s-1",
			wantScores: 1,
		},
		{
			name:       "missing item id uses message id",
			msg:        redis.XMessage{ID: "2-0", Values: map[string]any{"payload": `{"task_prompt":"q","candidate_output":"r"}`}},
			wantItemID: "2-0",
			wantScores: 1,
		},
		{
			name:    "missing payload",
			msg:     redis.XMessage{ID: "3-0", Values: map[string]any{"other": "x"}},
			wantErr: true,
		},
		{
			name:    "malformed payload",
			msg:     redis.XMessage{ID: "4-0", Values: map[string]any{"payload": `{"item_id":`}},
			wantErr: true,
		},
		{
			name:       "grading error keeps item id",
			msg:        redis.XMessage{ID: "5-0", Values: map[string]any{"payload": `{"item_id":"s-5","tasks":["fluency"]}`}},
			graderErr:  errors.New("task not found: fluency"),
			wantErr:    true,
			wantItemID: "s-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grader := &stubGrader{err: tt.graderErr}
			result, err := handle(context.Background(), grader, tt.msg)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if result.ItemID != tt.wantItemID {
				t.Errorf("Expected item id %q, got %q", tt.wantItemID, result.ItemID)
			}
			if len(result.Scores) != tt.wantScores {
				t.Errorf("Expected %d scores, got %d", tt.wantScores, len(result.Scores))
			}
			if tt.graderErr != nil && result.Error == "" {
				t.Error("Expected error message on result")
			}
		})
	}
}

func TestInterrupted(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"graded", context.Background(), nil, false},
		{"grading error", context.Background(), errors.New("task not found: fluency"), false},
		{"wrapped cancellation", context.Background(), fmt.Errorf("grading interrupted: %w", context.Canceled), true},
		{"consumer shutting down", cancelled, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interrupted(tt.ctx, tt.err); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRedisStreamConfig_WithDefaults(t *testing.T) {
	cfg := NewRedisStreamConfig("localhost:6379", "", "", "", "", "").
		WithDefaults("jury-items", "jury-results", "jury-group")

	if cfg.Stream != "jury-items" || cfg.ResultStream != "jury-results" || cfg.Group != "jury-group" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.ConsumerName == "" {
		t.Error("Expected a consumer name")
	}

	custom := NewRedisStreamConfig("", "", "in", "out", "g", "c").WithDefaults("a", "b", "d")
	if custom.Stream != "in" || custom.ResultStream != "out" || custom.Group != "g" || custom.ConsumerName != "c" {
		t.Errorf("Explicit values overwritten: %+v", custom)
	}
}
