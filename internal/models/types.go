package models

import (
	"fmt"
	"time"
)

// GradedItem is one candidate output to be graded together with the task prompt that produced it.
type GradedItem struct {
	ItemID          string `json:"item_id"`
	TaskPrompt      string `json:"task_prompt"`
	CandidateOutput string `json:"candidate_output"`
}

// GradeRequest is the wire shape accepted by the API, the stream consumer and the JSONL reader.
type GradeRequest struct {
	ItemID          string            `json:"item_id"`
	TaskPrompt      string            `json:"task_prompt"`
	CandidateOutput string            `json:"candidate_output"`
	Tasks           []string          `json:"tasks,omitempty"`
	Labels          map[string]string `json:"labels,omitempty"`
}

func (r GradeRequest) Item() GradedItem {
	return GradedItem{
		ItemID:          r.ItemID,
		TaskPrompt:      r.TaskPrompt,
		CandidateOutput: r.CandidateOutput,
	}
}

type JudgeIdentity struct {
	Key             string `json:"judge_key" yaml:"key"`
	ModelName       string `json:"model_name" yaml:"model_name"`
	ModelDeployment string `json:"model_deployment" yaml:"model_deployment"`
}

// RawJudgeResponse is the unparsed text a judge returned for one item.
type RawJudgeResponse struct {
	JudgeKey string `json:"judge_key"`
	ItemID   string `json:"item_id"`
	Text     string `json:"text"`
}

// Verdict is one judge's decision on one criterion of one item.
// Score is 0 or 1 for a well-behaved judge; any other number is kept and flagged OutOfDomain.
type Verdict struct {
	JudgeKey    string  `json:"judge_key"`
	ItemID      string  `json:"item_id"`
	Criterion   string  `json:"criterion_name"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	OutOfDomain bool    `json:"out_of_domain,omitempty"`
}

// Binary reports whether the verdict may take part in a vote.
func (v Verdict) Binary() bool {
	return !v.OutOfDomain && (v.Score == 0 || v.Score == 1)
}

type FailureKind string

const (
	FailureInvalidJSON   FailureKind = "invalid_json"
	FailureMissingField  FailureKind = "missing_field"
	FailureInvalidScore  FailureKind = "invalid_score"
	FailureInvalidField  FailureKind = "invalid_field"
	FailureDispatchError FailureKind = "dispatch_error"
)

// Failure records why a judge produced no usable verdicts for an item.
// It covers both parse failures and dispatch errors.
type Failure struct {
	JudgeKey string      `json:"judge_key"`
	ItemID   string      `json:"item_id"`
	Kind     FailureKind `json:"kind"`
	Reason   string      `json:"reason"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("judge %s item %s: %s", f.JudgeKey, f.ItemID, f.Reason)
}

func (f *Failure) IsDispatch() bool {
	return f.Kind == FailureDispatchError
}

// JudgeOutcome is everything one judge contributed to one item: verdicts keyed by criterion, or a failure.
type JudgeOutcome struct {
	Judge    JudgeIdentity      `json:"judge"`
	Raw      string             `json:"raw,omitempty"`
	Verdicts map[string]Verdict `json:"verdicts,omitempty"`
	Failure  *Failure           `json:"failure,omitempty"`
	Duration time.Duration      `json:"duration_ns"`
}

// CriterionOutcome is a JudgeOutcome projected onto a single criterion.
// Exactly one of Verdict and Failure is set.
type CriterionOutcome struct {
	JudgeKey string   `json:"judge_key"`
	Verdict  *Verdict `json:"verdict,omitempty"`
	Failure  *Failure `json:"failure,omitempty"`
}

type Coverage string

const (
	CoverageFull      Coverage = "full"
	CoveragePartial   Coverage = "partial"
	CoverageDefaulted Coverage = "defaulted"
)

type AggregatedScore struct {
	ItemID             string   `json:"item_id"`
	Criterion          string   `json:"criterion_name"`
	Metric             string   `json:"metric,omitempty"`
	Score              float64  `json:"score"`
	ContributingJudges []string `json:"contributing_judges"`
	Coverage           Coverage `json:"coverage"`
	Tied               bool     `json:"tied,omitempty"`
	OutOfDomain        int      `json:"out_of_domain,omitempty"`
}

// ItemResult is the full grading record of one item across one or more tasks.
type ItemResult struct {
	RunID    string                             `json:"run_id,omitempty"`
	ItemID   string                             `json:"item_id"`
	Scores   []AggregatedScore                  `json:"scores"`
	Outcomes map[string]map[string]JudgeOutcome `json:"outcomes,omitempty"`
	Labels   map[string]string                  `json:"labels,omitempty"`
	Error    string                             `json:"error,omitempty"`
	Duration time.Duration                      `json:"duration_ns"`
}

// Score returns the aggregated score for criterion, if present.
func (r ItemResult) Score(criterion string) (AggregatedScore, bool) {
	for _, s := range r.Scores {
		if s.Criterion == criterion {
			return s, true
		}
	}
	return AggregatedScore{}, false
}
