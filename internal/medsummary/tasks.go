package medsummary

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/aggregator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/annotator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/criteria"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/prompt"
)

const ScenarioName = "medsummary"

const (
	CriterionDirection    = "direction_of_effect"
	CriterionNumbers      = "numbers_accurate"
	CriterionCompleteness = "completeness"
)

const (
	MetricDirection    = "medsummary_direction_of_effect"
	MetricNumbers      = "medsummary_numbers"
	MetricCompleteness = "medsummary_completeness"
)

// DefaultScore is reported when the jury cannot reach a majority.
const DefaultScore = 0.0

// Definition ties a grading task to the metric that reduces its verdicts.
type Definition struct {
	Task   annotator.Task
	Metric aggregator.JuryMetric
}

// Definitions returns the direction, numbers and completeness tasks in that order.
func Definitions() ([]Definition, error) {
	table := []struct {
		criterion string
		metric    string
		text      string
	}{
		{CriterionDirection, MetricDirection, directionTemplate},
		{CriterionNumbers, MetricNumbers, numbersTemplate},
		{CriterionCompleteness, MetricCompleteness, completenessTemplate},
	}

	defs := make([]Definition, 0, len(table))
	for _, row := range table {
		tmpl, err := prompt.NewTemplate(row.criterion, row.text)
		if err != nil {
			return nil, err
		}
		schema, err := criteria.NewSchema(criteria.NewSpec(row.criterion))
		if err != nil {
			return nil, fmt.Errorf("criteria for %s: %w", row.criterion, err)
		}

		defs = append(defs, Definition{
			Task: annotator.Task{
				Name:     row.criterion,
				Template: tmpl,
				Schema:   schema,
			},
			Metric: aggregator.JuryMetric{
				Name:         row.metric,
				Criterion:    row.criterion,
				DefaultScore: DefaultScore,
			},
		})
	}
	return defs, nil
}

// DefaultPanel is the three-judge jury the scenario was designed around.
func DefaultPanel() []models.JudgeIdentity {
	return []models.JudgeIdentity{
		{Key: "oai", ModelName: "openai/o4-mini-2025-04-16", ModelDeployment: "openai/o4-mini-2025-04-16"},
		{Key: "claude", ModelName: "anthropic/claude-sonnet-4-20250514", ModelDeployment: "anthropic/claude-sonnet-4-20250514"},
		{Key: "gemini", ModelName: "google/gemini-2.5-pro", ModelDeployment: "google/gemini-2.5-pro"},
	}
}

// LabelColumns maps each criterion to the column stem used for human labels in the dataset.
// Completeness labels are stored under all_sig_outcomes.
var LabelColumns = map[string]string{
	CriterionDirection:    "direction_of_effect",
	CriterionNumbers:      "numbers_accurate",
	CriterionCompleteness: "all_sig_outcomes",
}
