package batch

import (
	"context"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Grader grades one request.
type Grader interface {
	Execute(ctx context.Context, runID string, req models.GradeRequest) (models.ItemResult, error)
}

// Processor grades records with a bounded number of concurrent items.
type Processor struct {
	grader  Grader
	workers int
	runID   string
	logger  *zerolog.Logger
}

func NewProcessor(grader Grader, workers int, runID string, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		grader:  grader,
		workers: workers,
		runID:   runID,
		logger:  logger,
	}
}

// Process emits one result per record, in completion order. Records that failed to
// decode and items that failed to grade come back with Error set.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan models.ItemResult {
	out := make(chan models.ItemResult, p.workers)

	go func() {
		defer close(out)

		var g errgroup.Group
		g.SetLimit(p.workers)

		for i, record := range records {
			if ctx.Err() != nil {
				p.logger.Warn().Int("remaining", len(records)-i).Msg("cancelled, skipping remaining records")
				break
			}

			g.Go(func() error {
				out <- p.processOne(ctx, record)
				return nil
			})
		}

		_ = g.Wait()
	}()

	return out
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) models.ItemResult {
	if record.Error != nil {
		return models.ItemResult{
			RunID:  p.runID,
			ItemID: record.Request.ItemID,
			Error:  record.Error.Error(),
		}
	}

	result, err := p.grader.Execute(ctx, p.runID, record.Request)
	if err != nil {
		p.logger.Error().
			Err(err).
			Int("line", record.LineNumber).
			Str("item_id", record.Request.ItemID).
			Msg("grading failed")
		result.RunID = p.runID
		if result.ItemID == "" {
			result.ItemID = record.Request.ItemID
		}
		result.Error = err.Error()
	}
	return result
}
