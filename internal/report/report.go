package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

// Agreement compares jury scores with human labels for one criterion.
type Agreement struct {
	Labeled     int     `json:"labeled"`
	Agree       int     `json:"agree"`
	Rate        float64 `json:"rate"`
	CohensKappa float64 `json:"cohens_kappa"`
}

type CriterionSummary struct {
	Criterion   string     `json:"criterion_name"`
	Metric      string     `json:"metric,omitempty"`
	Items       int        `json:"items"`
	MeanScore   float64    `json:"mean_score"`
	Full        int        `json:"full_panel"`
	Partial     int        `json:"partial_panel"`
	Defaulted   int        `json:"defaulted"`
	Tied        int        `json:"tied"`
	OutOfDomain int        `json:"out_of_domain_verdicts"`
	Agreement   *Agreement `json:"agreement,omitempty"`
}

type JudgeSummary struct {
	JudgeKey string                     `json:"judge_key"`
	Outcomes int                        `json:"outcomes"`
	Failures map[models.FailureKind]int `json:"failures"`
}

// Report summarises a run over a dataset.
type Report struct {
	RunID    string             `json:"run_id,omitempty"`
	Items    int                `json:"items"`
	Errors   int                `json:"errors"`
	Criteria []CriterionSummary `json:"criteria"`
	Judges   []JudgeSummary     `json:"judges"`
	Duration time.Duration      `json:"duration_ns"`
}

// Criterion returns the summary for one criterion.
func (r Report) Criterion(name string) (CriterionSummary, bool) {
	for _, c := range r.Criteria {
		if c.Criterion == name {
			return c, true
		}
	}
	return CriterionSummary{}, false
}

type criterionAcc struct {
	summary CriterionSummary
	total   float64
	pairs   []labelPair
}

type labelPair struct {
	jury  float64
	human float64
}

// Builder accumulates item results. It is not safe for concurrent use.
type Builder struct {
	runID    string
	items    int
	errors   int
	duration time.Duration
	order    []string
	criteria map[string]*criterionAcc
	judges   map[string]*JudgeSummary
}

func NewBuilder(runID string) *Builder {
	return &Builder{
		runID:    runID,
		criteria: make(map[string]*criterionAcc),
		judges:   make(map[string]*JudgeSummary),
	}
}

func (b *Builder) Add(result models.ItemResult) {
	b.items++
	b.duration += result.Duration
	if result.Error != "" {
		b.errors++
		return
	}

	for _, score := range result.Scores {
		acc, ok := b.criteria[score.Criterion]
		if !ok {
			acc = &criterionAcc{summary: CriterionSummary{Criterion: score.Criterion, Metric: score.Metric}}
			b.criteria[score.Criterion] = acc
			b.order = append(b.order, score.Criterion)
		}

		acc.summary.Items++
		acc.total += score.Score
		acc.summary.OutOfDomain += score.OutOfDomain
		if score.Tied {
			acc.summary.Tied++
		}
		switch score.Coverage {
		case models.CoverageFull:
			acc.summary.Full++
		case models.CoveragePartial:
			acc.summary.Partial++
		case models.CoverageDefaulted:
			acc.summary.Defaulted++
		}

		// defaulted and tied scores carry no jury decision to compare
		if score.Coverage == models.CoverageDefaulted || score.Tied {
			continue
		}
		if human, ok := LabelScore(result.Labels[score.Criterion]); ok && (score.Score == 0 || score.Score == 1) {
			acc.pairs = append(acc.pairs, labelPair{jury: score.Score, human: human})
		}
	}

	for _, outcomes := range result.Outcomes {
		for key, outcome := range outcomes {
			js, ok := b.judges[key]
			if !ok {
				js = &JudgeSummary{JudgeKey: key, Failures: make(map[models.FailureKind]int)}
				b.judges[key] = js
			}
			js.Outcomes++
			if outcome.Failure != nil {
				js.Failures[outcome.Failure.Kind]++
			}
		}
	}
}

func (b *Builder) Report() Report {
	r := Report{
		RunID:    b.runID,
		Items:    b.items,
		Errors:   b.errors,
		Criteria: make([]CriterionSummary, 0, len(b.order)),
		Judges:   make([]JudgeSummary, 0, len(b.judges)),
		Duration: b.duration,
	}

	for _, name := range b.order {
		acc := b.criteria[name]
		s := acc.summary
		if s.Items > 0 {
			s.MeanScore = acc.total / float64(s.Items)
		}
		if len(acc.pairs) > 0 {
			s.Agreement = agreement(acc.pairs)
		}
		r.Criteria = append(r.Criteria, s)
	}

	for _, js := range b.judges {
		r.Judges = append(r.Judges, *js)
	}
	sort.Slice(r.Judges, func(i, j int) bool { return r.Judges[i].JudgeKey < r.Judges[j].JudgeKey })

	return r
}

// Build is a shortcut for a Builder fed with every result.
func Build(runID string, results []models.ItemResult) Report {
	b := NewBuilder(runID)
	for _, r := range results {
		b.Add(r)
	}
	return b.Report()
}

// LabelScore maps a human label to a binary score. Unknown labels are skipped.
func LabelScore(label string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "correct", "1", "yes", "true":
		return 1, true
	case "incorrect", "0", "no", "false":
		return 0, true
	default:
		return 0, false
	}
}

func agreement(pairs []labelPair) *Agreement {
	n := float64(len(pairs))
	var agree, juryOnes, humanOnes float64
	for _, p := range pairs {
		if p.jury == p.human {
			agree++
		}
		juryOnes += p.jury
		humanOnes += p.human
	}

	po := agree / n
	pe := (juryOnes/n)*(humanOnes/n) + (1-juryOnes/n)*(1-humanOnes/n)

	kappa := 0.0
	if math.Abs(1-pe) < 1e-12 {
		if po == 1 {
			kappa = 1
		}
	} else {
		kappa = (po - pe) / (1 - pe)
	}

	return &Agreement{
		Labeled:     len(pairs),
		Agree:       int(agree),
		Rate:        po,
		CohensKappa: kappa,
	}
}
