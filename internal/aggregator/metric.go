package aggregator

import (
	"github.com/povarna/generative-ai-agents/jury-agent/internal/annotator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

// JuryMetric names the scalar reported for one criterion and the score used when the jury cannot decide.
type JuryMetric struct {
	Name         string  `json:"name"`
	Criterion    string  `json:"criterion"`
	DefaultScore float64 `json:"default_score"`
}

// Evaluate aggregates an annotation into this metric's score.
func (m JuryMetric) Evaluate(annotation annotator.Annotation) (models.AggregatedScore, error) {
	score, err := Aggregate(annotation.ItemID, m.Criterion, annotation.ForCriterion(m.Criterion), m.DefaultScore)
	if err != nil {
		return score, err
	}
	score.Metric = m.Name
	return score, nil
}
