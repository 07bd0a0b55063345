package aggregator

import (
	"fmt"
	"sort"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

// AggregationConfigError means a criterion reached the aggregator with no outcomes at all,
// not even failures. It indicates broken wiring and is fatal.
type AggregationConfigError struct {
	ItemID    string
	Criterion string
}

func (e *AggregationConfigError) Error() string {
	return fmt.Sprintf("no judge outcomes supplied for item %s criterion %s", e.ItemID, e.Criterion)
}

// Aggregate reduces per-judge outcomes for one (item, criterion) to a single score by majority vote.
//
// Only binary, in-domain verdicts vote. Failures and out-of-domain scores abstain. A tie or
// an empty vote yields defaultScore. The result does not depend on the order of outcomes.
func Aggregate(itemID, criterion string, outcomes []models.CriterionOutcome, defaultScore float64) (models.AggregatedScore, error) {
	if len(outcomes) == 0 {
		return models.AggregatedScore{}, &AggregationConfigError{ItemID: itemID, Criterion: criterion}
	}

	result := models.AggregatedScore{
		ItemID:             itemID,
		Criterion:          criterion,
		ContributingJudges: []string{},
	}

	ones, zeros := 0, 0
	for _, o := range outcomes {
		if o.Failure != nil || o.Verdict == nil {
			continue
		}
		if !o.Verdict.Binary() {
			result.OutOfDomain++
			continue
		}
		if o.Verdict.Score == 1 {
			ones++
		} else {
			zeros++
		}
		result.ContributingJudges = append(result.ContributingJudges, o.JudgeKey)
	}
	sort.Strings(result.ContributingJudges)

	switch {
	case ones+zeros == 0:
		result.Score = defaultScore
		result.Coverage = models.CoverageDefaulted
		return result, nil
	case ones+zeros == len(outcomes):
		result.Coverage = models.CoverageFull
	default:
		result.Coverage = models.CoveragePartial
	}

	switch {
	case ones > zeros:
		result.Score = 1
	case zeros > ones:
		result.Score = 0
	default:
		result.Score = defaultScore
		result.Tied = true
	}

	return result, nil
}
