package annotator

import (
	"context"
	"fmt"
	"sort"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/criteria"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/parser"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/prompt"
	"github.com/rs/zerolog"
)

// Task is one grading dimension: the prompt judges see and the schema their answers must satisfy.
type Task struct {
	Name     string
	Template *prompt.Template
	Schema   criteria.Schema
}

func (t Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.Template == nil {
		return fmt.Errorf("task %s has no prompt template", t.Name)
	}
	if err := t.Schema.Validate(); err != nil {
		return fmt.Errorf("task %s: %w", t.Name, err)
	}
	return nil
}

// Annotation is the per-judge result of grading one item on one task.
type Annotation struct {
	ItemID   string                         `json:"item_id"`
	Task     string                         `json:"task"`
	Outcomes map[string]models.JudgeOutcome `json:"outcomes"`
}

// ForCriterion projects every judge's outcome onto one criterion, sorted by judge key.
func (a Annotation) ForCriterion(criterion string) []models.CriterionOutcome {
	keys := make([]string, 0, len(a.Outcomes))
	for key := range a.Outcomes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]models.CriterionOutcome, 0, len(keys))
	for _, key := range keys {
		outcome := a.Outcomes[key]
		co := models.CriterionOutcome{JudgeKey: key}
		if outcome.Failure != nil {
			co.Failure = outcome.Failure
		} else if v, ok := outcome.Verdicts[criterion]; ok {
			co.Verdict = &v
		} else {
			co.Failure = &models.Failure{
				JudgeKey: key,
				ItemID:   a.ItemID,
				Kind:     models.FailureMissingField,
				Reason:   fmt.Sprintf("missing_field:%s", criterion),
			}
		}
		out = append(out, co)
	}
	return out
}

// Annotator grades items on one task with one panel.
type Annotator struct {
	task       Task
	panel      *judge.Panel
	dispatcher *judge.Dispatcher
	logger     *zerolog.Logger
}

func New(task Task, panel *judge.Panel, dispatcher *judge.Dispatcher, logger *zerolog.Logger) (*Annotator, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if panel == nil || panel.Len() == 0 {
		return nil, fmt.Errorf("task %s: judge panel is empty", task.Name)
	}
	if dispatcher == nil {
		dispatcher = judge.NewDispatcher(judge.DefaultTimeout, nil, logger)
	}

	return &Annotator{
		task:       task,
		panel:      panel,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

func (a *Annotator) Task() Task {
	return a.task
}

// Annotate renders the prompt once, sends it to every judge and parses each answer.
// It always returns one outcome per panel judge.
func (a *Annotator) Annotate(ctx context.Context, item models.GradedItem) Annotation {
	rendered := a.task.Template.Render(item.TaskPrompt, item.CandidateOutput)
	results := a.dispatcher.Dispatch(ctx, item.ItemID, rendered, a.panel)

	annotation := Annotation{
		ItemID:   item.ItemID,
		Task:     a.task.Name,
		Outcomes: make(map[string]models.JudgeOutcome, len(results)),
	}

	for key, result := range results {
		outcome := models.JudgeOutcome{
			Judge:    result.Judge,
			Raw:      result.Text,
			Duration: result.Duration,
		}

		if resp, ok := result.Response(); ok {
			outcome.Verdicts, outcome.Failure = parser.ParseResponse(resp, a.task.Schema)
		} else {
			outcome.Failure = &models.Failure{
				JudgeKey: key,
				ItemID:   item.ItemID,
				Kind:     models.FailureDispatchError,
				Reason:   result.Err.Error(),
			}
		}

		if outcome.Failure != nil {
			a.logger.Warn().
				Str("task", a.task.Name).
				Str("item_id", item.ItemID).
				Str("judge", key).
				Str("kind", string(outcome.Failure.Kind)).
				Str("reason", outcome.Failure.Reason).
				Msg("judge produced no verdict")
		}

		annotation.Outcomes[key] = outcome
	}

	return annotation
}
