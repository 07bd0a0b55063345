package prechecks

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

type LengthChecker struct {
	MinRatio float64
	MaxRatio float64
}

func NewLengthChecker() *LengthChecker {
	return &LengthChecker{MinRatio: 0.05, MaxRatio: 1.5}
}

// Check compares the summary length with the abstract it summarises. A summary
// longer than its source, or a tiny fraction of it, usually means a shifted row.
func (c *LengthChecker) Check(req models.GradeRequest) Result {
	result := Result{Name: "length-checker"}

	abstractLength := len(req.TaskPrompt)
	if abstractLength == 0 {
		result.Reason = "Empty abstract"
		return result
	}

	ratio := float64(len(req.CandidateOutput)) / float64(abstractLength)

	switch {
	case ratio < c.MinRatio:
		result.Reason = fmt.Sprintf("Summary is %.0f%% of the abstract length", ratio*100)
	case ratio > c.MaxRatio:
		result.Score = 0.5
		result.Reason = fmt.Sprintf("Summary is %.1f times longer than the abstract", ratio)
	default:
		result.Score = 1.0
		result.Reason = "Summary length is acceptable"
	}
	return result
}
