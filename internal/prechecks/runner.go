package prechecks

import (
	"sort"
	"sync"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

type Runner struct {
	Checkers []Checker
}

func NewRunner(checkers []Checker) *Runner {
	return &Runner{
		Checkers: checkers,
	}
}

// NewDefaultRunner runs the length, overlap and format checks.
func NewDefaultRunner() *Runner {
	return NewRunner([]Checker{NewLengthChecker(), NewOverlapChecker(), NewFormatChecker()})
}

// Run executes every checker concurrently. Results are ordered by checker name.
func (r *Runner) Run(req models.GradeRequest) []Result {
	results := make(chan Result, len(r.Checkers))
	var wg sync.WaitGroup

	for _, checker := range r.Checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			results <- c.Check(req)
		}(checker)
	}

	wg.Wait()
	close(results)

	out := make([]Result, 0, len(r.Checkers))
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Warnings returns only the checks that found something.
func (r *Runner) Warnings(req models.GradeRequest) []Result {
	var warnings []Result
	for _, res := range r.Run(req) {
		if res.Score < 1.0 {
			warnings = append(warnings, res)
		}
	}
	return warnings
}
