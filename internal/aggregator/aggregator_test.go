package aggregator

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/annotator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

func vote(key string, score float64) models.CriterionOutcome {
	return models.CriterionOutcome{
		JudgeKey: key,
		Verdict: &models.Verdict{
			JudgeKey:    key,
			ItemID:      "item",
			Criterion:   "completeness",
			Score:       score,
			OutOfDomain: score != 0 && score != 1,
		},
	}
}

func failed(key string, kind models.FailureKind) models.CriterionOutcome {
	return models.CriterionOutcome{
		JudgeKey: key,
		Failure:  &models.Failure{JudgeKey: key, ItemID: "item", Kind: kind, Reason: string(kind)},
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name         string
		outcomes     []models.CriterionOutcome
		defaultScore float64
		wantScore    float64
		wantJudges   []string
		wantCoverage models.Coverage
		wantTied     bool
		wantOOD      int
	}{
		{
			name:         "majority one",
			outcomes:     []models.CriterionOutcome{vote("a", 1), vote("b", 1), vote("c", 0)},
			wantScore:    1,
			wantJudges:   []string{"a", "b", "c"},
			wantCoverage: models.CoverageFull,
		},
		{
			name:         "majority zero",
			outcomes:     []models.CriterionOutcome{vote("a", 1), vote("b", 0), vote("c", 0)},
			wantScore:    0,
			wantJudges:   []string{"a", "b", "c"},
			wantCoverage: models.CoverageFull,
		},
		{
			name:         "tie resolves to default",
			outcomes:     []models.CriterionOutcome{vote("a", 1), vote("b", 0)},
			defaultScore: 0.5,
			wantScore:    0.5,
			wantJudges:   []string{"a", "b"},
			wantCoverage: models.CoverageFull,
			wantTied:     true,
		},
		{
			name:         "one invalid json, two agree",
			outcomes:     []models.CriterionOutcome{failed("a", models.FailureInvalidJSON), vote("b", 1), vote("c", 1)},
			wantScore:    1,
			wantJudges:   []string{"b", "c"},
			wantCoverage: models.CoveragePartial,
		},
		{
			name: "all failed",
			outcomes: []models.CriterionOutcome{
				failed("a", models.FailureInvalidJSON),
				failed("b", models.FailureInvalidJSON),
				failed("c", models.FailureDispatchError),
			},
			defaultScore: 0,
			wantScore:    0,
			wantJudges:   []string{},
			wantCoverage: models.CoverageDefaulted,
		},
		{
			name:         "all failed with non-zero default",
			outcomes:     []models.CriterionOutcome{failed("a", models.FailureMissingField)},
			defaultScore: 0.25,
			wantScore:    0.25,
			wantJudges:   []string{},
			wantCoverage: models.CoverageDefaulted,
		},
		{
			name:         "out of domain abstains",
			outcomes:     []models.CriterionOutcome{vote("a", 0.5), vote("b", 0), vote("c", 1), vote("d", 1)},
			wantScore:    1,
			wantJudges:   []string{"b", "c", "d"},
			wantCoverage: models.CoveragePartial,
			wantOOD:      1,
		},
		{
			name:         "dispatch error turns majority into tie",
			outcomes:     []models.CriterionOutcome{vote("a", 1), vote("b", 0), failed("c", models.FailureDispatchError)},
			wantScore:    0,
			wantJudges:   []string{"a", "b"},
			wantCoverage: models.CoveragePartial,
			wantTied:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate("item", "completeness", tt.outcomes, tt.defaultScore)
			if err != nil {
				t.Fatalf("Aggregate failed: %v", err)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Expected score %v, got %v", tt.wantScore, got.Score)
			}
			if !reflect.DeepEqual(got.ContributingJudges, tt.wantJudges) {
				t.Errorf("Expected contributing judges %v, got %v", tt.wantJudges, got.ContributingJudges)
			}
			if got.Coverage != tt.wantCoverage {
				t.Errorf("Expected coverage %s, got %s", tt.wantCoverage, got.Coverage)
			}
			if got.Tied != tt.wantTied {
				t.Errorf("Expected tied=%v, got %v", tt.wantTied, got.Tied)
			}
			if got.OutOfDomain != tt.wantOOD {
				t.Errorf("Expected %d out-of-domain verdicts, got %d", tt.wantOOD, got.OutOfDomain)
			}
			if got.ItemID != "item" || got.Criterion != "completeness" {
				t.Errorf("Result not attributed: %+v", got)
			}
		})
	}
}

func TestAggregate_EmptyIsConfigError(t *testing.T) {
	_, err := Aggregate("item", "completeness", nil, 0)

	var cfgErr *AggregationConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected AggregationConfigError, got %v", err)
	}
	if cfgErr.Criterion != "completeness" || cfgErr.ItemID != "item" {
		t.Errorf("Unexpected error fields %+v", cfgErr)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	outcomes := []models.CriterionOutcome{
		vote("oai", 1),
		failed("gemini", models.FailureInvalidJSON),
		vote("claude", 0),
		vote("local", 1),
		vote("extra", 0.3),
	}

	want, err := Aggregate("item", "completeness", outcomes, 0)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := make([]models.CriterionOutcome, len(outcomes))
		copy(shuffled, outcomes)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Aggregate("item", "completeness", shuffled, 0)
		if err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Permutation changed result: %+v vs %+v", got, want)
		}
	}
}

func TestJuryMetric_Evaluate(t *testing.T) {
	annotation := annotator.Annotation{
		ItemID: "study-3",
		Task:   "numbers_accurate",
		Outcomes: map[string]models.JudgeOutcome{
			"oai": {Verdicts: map[string]models.Verdict{
				"numbers_accurate": {JudgeKey: "oai", Criterion: "numbers_accurate", Score: 1},
			}},
			"claude": {Verdicts: map[string]models.Verdict{
				"numbers_accurate": {JudgeKey: "claude", Criterion: "numbers_accurate", Score: 1},
			}},
			"gemini": {Failure: &models.Failure{JudgeKey: "gemini", Kind: models.FailureInvalidJSON}},
		},
	}

	metric := JuryMetric{Name: "medsummary_numbers", Criterion: "numbers_accurate", DefaultScore: 0}
	score, err := metric.Evaluate(annotation)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if score.Metric != "medsummary_numbers" {
		t.Errorf("Expected metric name, got %q", score.Metric)
	}
	if score.Score != 1 {
		t.Errorf("Expected score 1, got %v", score.Score)
	}
	if !reflect.DeepEqual(score.ContributingJudges, []string{"claude", "oai"}) {
		t.Errorf("Unexpected contributing judges %v", score.ContributingJudges)
	}
	if score.Coverage != models.CoveragePartial {
		t.Errorf("Expected partial coverage, got %s", score.Coverage)
	}
}

func TestJuryMetric_EmptyAnnotation(t *testing.T) {
	metric := JuryMetric{Name: "medsummary_completeness", Criterion: "completeness"}
	_, err := metric.Evaluate(annotator.Annotation{ItemID: "x", Outcomes: map[string]models.JudgeOutcome{}})

	var cfgErr *AggregationConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected AggregationConfigError, got %v", err)
	}
}
