package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/aggregator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/annotator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks/mock_executor.go -package=mocks . TaskAnnotator,ScoreObserver

// TaskAnnotator grades one item on one task with the whole panel.
type TaskAnnotator interface {
	Annotate(ctx context.Context, item models.GradedItem) annotator.Annotation
}

// ScoreObserver is told about every aggregated score and judge failure.
type ScoreObserver interface {
	ObserveScore(score models.AggregatedScore)
	ObserveFailure(failure models.Failure)
}

// Stage pairs a task's annotator with the metric that reduces its verdicts.
type Stage struct {
	Name      string
	Annotator TaskAnnotator
	Metric    aggregator.JuryMetric
}

var ErrTaskNotFound = errors.New("task not found")

// Executor grades items across the configured tasks.
type Executor struct {
	stages   []Stage
	index    map[string]int
	observer ScoreObserver
	logger   *zerolog.Logger
}

func NewExecutor(stages []Stage, observer ScoreObserver, logger *zerolog.Logger) (*Executor, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("no grading tasks configured")
	}

	index := make(map[string]int, len(stages))
	for i, s := range stages {
		if s.Name == "" {
			return nil, fmt.Errorf("stage %d has no task name", i)
		}
		if s.Annotator == nil {
			return nil, fmt.Errorf("task %s has no annotator", s.Name)
		}
		if _, dup := index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate task %s", s.Name)
		}
		index[s.Name] = i
	}

	return &Executor{
		stages:   stages,
		index:    index,
		observer: observer,
		logger:   logger,
	}, nil
}

// Tasks lists the task names in execution order.
func (e *Executor) Tasks() []string {
	names := make([]string, len(e.stages))
	for i, s := range e.stages {
		names[i] = s.Name
	}
	return names
}

// Metric returns the metric configured for a task.
func (e *Executor) Metric(task string) (aggregator.JuryMetric, bool) {
	i, ok := e.index[task]
	if !ok {
		return aggregator.JuryMetric{}, false
	}
	return e.stages[i].Metric, true
}

// ExecuteTask grades the request on a single task, ignoring req.Tasks.
func (e *Executor) ExecuteTask(ctx context.Context, runID, task string, req models.GradeRequest) (models.ItemResult, error) {
	req.Tasks = []string{task}
	return e.Execute(ctx, runID, req)
}

// Execute grades the request on req.Tasks, or on every task when none are named.
// Judge failures are part of the result. Unknown tasks, aggregation wiring errors
// and a cancelled ctx are returned as errors.
func (e *Executor) Execute(ctx context.Context, runID string, req models.GradeRequest) (models.ItemResult, error) {
	start := time.Now()

	if runID == "" {
		runID = uuid.NewString()
	}
	if req.ItemID == "" {
		req.ItemID = uuid.NewString()
	}

	stages, err := e.selectStages(req.Tasks)
	if err != nil {
		return models.ItemResult{RunID: runID, ItemID: req.ItemID, Error: err.Error()}, err
	}

	e.logger.Info().
		Str("run_id", runID).
		Str("item_id", req.ItemID).
		Int("tasks", len(stages)).
		Msg("starting grading")

	item := req.Item()
	annotations := make([]annotator.Annotation, len(stages))
	scores := make([]models.AggregatedScore, len(stages))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range stages {
		g.Go(func() error {
			annotations[i] = s.Annotator.Annotate(gctx, item)
			score, err := s.Metric.Evaluate(annotations[i])
			if err != nil {
				return fmt.Errorf("task %s: %w", s.Name, err)
			}
			scores[i] = score
			return nil
		})
	}

	result := models.ItemResult{
		RunID:  runID,
		ItemID: req.ItemID,
		Labels: req.Labels,
	}

	if err := g.Wait(); err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		e.logger.Error().Err(err).Str("item_id", req.ItemID).Msg("grading failed")
		return result, err
	}

	// judges that ran on a cancelled context all defaulted; that is not a grade
	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("grading interrupted: %w", err)
		result.Error = err.Error()
		result.Duration = time.Since(start)
		e.logger.Warn().Err(err).Str("item_id", req.ItemID).Msg("grading interrupted")
		return result, err
	}

	result.Scores = scores
	result.Outcomes = make(map[string]map[string]models.JudgeOutcome, len(stages))
	for i, s := range stages {
		result.Outcomes[s.Name] = annotations[i].Outcomes
	}
	result.Duration = time.Since(start)

	e.observe(result)

	for _, score := range scores {
		e.logger.Info().
			Str("item_id", req.ItemID).
			Str("criterion", score.Criterion).
			Float64("score", score.Score).
			Str("coverage", string(score.Coverage)).
			Bool("tied", score.Tied).
			Strs("judges", score.ContributingJudges).
			Msg("criterion graded")
	}

	return result, nil
}

func (e *Executor) selectStages(tasks []string) ([]Stage, error) {
	if len(tasks) == 0 {
		return e.stages, nil
	}

	selected := make([]Stage, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, name := range tasks {
		i, ok := e.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		selected = append(selected, e.stages[i])
	}
	return selected, nil
}

func (e *Executor) observe(result models.ItemResult) {
	if e.observer == nil {
		return
	}
	for _, score := range result.Scores {
		e.observer.ObserveScore(score)
	}
	for _, outcomes := range result.Outcomes {
		for _, outcome := range outcomes {
			if outcome.Failure != nil {
				e.observer.ObserveFailure(*outcome.Failure)
			}
		}
	}
}
