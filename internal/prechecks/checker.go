package prechecks

import (
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

// Result is one advisory check of a grade request. Score 1 means nothing suspicious.
type Result struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Checker inspects a request before it is sent to the jury. Checks never block grading.
type Checker interface {
	Check(req models.GradeRequest) Result
}
