package scenario

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	ColumnID        = "id"
	ColumnQuestion  = "question"
	ColumnAnswer    = "answer"
	ColumnCandidate = "candidate"
)

// Instance is one dataset row: what to grade plus the human reference labels.
type Instance struct {
	Row          int                 `json:"row"`
	Request      models.GradeRequest `json:"request"`
	Explanations map[string]string   `json:"explanations,omitempty"`
}

// Reader loads a MedSummary style CSV. labelColumns maps a criterion to the column stem
// holding its human label, e.g. completeness -> all_sig_outcomes reads
// eval.all_sig_outcomes.label.
type Reader struct {
	labelColumns map[string]string
	logger       *zerolog.Logger
}

func NewReader(labelColumns map[string]string, logger *zerolog.Logger) *Reader {
	return &Reader{labelColumns: labelColumns, logger: logger}
}

func labelColumn(stem string) string       { return "eval." + stem + ".label" }
func explanationColumn(stem string) string { return "eval." + stem + ".explanation" }

// Read parses every row. The question column becomes the task prompt. The candidate
// column is graded when present, otherwise the reference answer is graded.
func (r *Reader) Read(in io.Reader) ([]Instance, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColumnQuestion, ColumnAnswer} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	_, hasCandidate := cols[ColumnCandidate]
	if !hasCandidate {
		r.logger.Info().Msg("no candidate column, grading reference answers")
	}

	var instances []Instance
	for idx := 0; ; idx++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx+2, err)
		}

		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		id := get(ColumnID)
		if id == "" {
			id = fmt.Sprintf("instance_%d", idx)
		}

		candidate := get(ColumnAnswer)
		if hasCandidate {
			candidate = get(ColumnCandidate)
		}

		inst := Instance{
			Row: idx + 2,
			Request: models.GradeRequest{
				ItemID:          id,
				TaskPrompt:      get(ColumnQuestion),
				CandidateOutput: candidate,
			},
		}

		for criterion, stem := range r.labelColumns {
			if label := strings.TrimSpace(get(labelColumn(stem))); label != "" {
				if inst.Request.Labels == nil {
					inst.Request.Labels = make(map[string]string)
				}
				inst.Request.Labels[criterion] = label
			}
			if expl := get(explanationColumn(stem)); expl != "" {
				if inst.Explanations == nil {
					inst.Explanations = make(map[string]string)
				}
				inst.Explanations[criterion] = expl
			}
		}

		instances = append(instances, inst)
	}

	r.logger.Info().Int("instances", len(instances)).Msg("dataset loaded")
	return instances, nil
}
