package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/report"
)

// Run describes one grading run.
type Run struct {
	ID        string
	Scenario  string
	Tasks     []string
	Judges    []string
	StartedAt time.Time
}

func (db *DB) SaveRun(ctx context.Context, run Run) error {
	query := `
	INSERT INTO jury_runs (id, scenario, tasks, judges, started_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET scenario = EXCLUDED.scenario, tasks = EXCLUDED.tasks, judges = EXCLUDED.judges`

	if _, err := db.Pool.Exec(ctx, query, run.ID, run.Scenario, run.Tasks, run.Judges, run.StartedAt); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	db.logger.Info().Str("run_id", run.ID).Strs("tasks", run.Tasks).Msg("run saved")
	return nil
}

// FinishRun stores the final report of a run.
func (db *DB) FinishRun(ctx context.Context, runID string, r report.Report) error {
	reportJSON, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	result, err := db.Pool.Exec(ctx, `UPDATE jury_runs SET finished_at = NOW(), report = $2 WHERE id = $1`, runID, reportJSON)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// SaveItemResult stores the full result and one row per aggregated score in a single transaction.
func (db *DB) SaveItemResult(ctx context.Context, result models.ItemResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result %s: %w", result.ItemID, err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	resultQuery := `
	INSERT INTO jury_item_results (run_id, item_id, error, result)
	VALUES ($1, $2, NULLIF($3, ''), $4)
	ON CONFLICT (run_id, item_id) DO UPDATE SET error = EXCLUDED.error, result = EXCLUDED.result`

	if _, err := tx.Exec(ctx, resultQuery, result.RunID, result.ItemID, result.Error, resultJSON); err != nil {
		return fmt.Errorf("failed to insert result %s: %w", result.ItemID, err)
	}

	scoreQuery := `
	INSERT INTO jury_scores (run_id, item_id, criterion, metric, score, coverage, tied, out_of_domain, contributing_judges)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (run_id, item_id, criterion) DO UPDATE SET
		metric = EXCLUDED.metric,
		score = EXCLUDED.score,
		coverage = EXCLUDED.coverage,
		tied = EXCLUDED.tied,
		out_of_domain = EXCLUDED.out_of_domain,
		contributing_judges = EXCLUDED.contributing_judges`

	batch := &pgx.Batch{}
	for _, s := range result.Scores {
		batch.Queue(scoreQuery,
			result.RunID,
			result.ItemID,
			s.Criterion,
			s.Metric,
			s.Score,
			string(s.Coverage),
			s.Tied,
			s.OutOfDomain,
			s.ContributingJudges,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert scores for %s: %w", result.ItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRunSummary recomputes per-criterion statistics of a run from stored scores.
func (db *DB) GetRunSummary(ctx context.Context, runID string) ([]report.CriterionSummary, error) {
	query := `
	SELECT
	  criterion,
	  metric,
	  COUNT(*),
	  AVG(score),
	  COUNT(*) FILTER (WHERE coverage = 'full'),
	  COUNT(*) FILTER (WHERE coverage = 'partial'),
	  COUNT(*) FILTER (WHERE coverage = 'defaulted'),
	  COUNT(*) FILTER (WHERE tied),
	  COALESCE(SUM(out_of_domain), 0)
	FROM jury_scores
	WHERE run_id = $1
	GROUP BY criterion, metric
	ORDER BY criterion`

	rows, err := db.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run summary: %w", err)
	}
	defer rows.Close()

	var summaries []report.CriterionSummary
	for rows.Next() {
		var s report.CriterionSummary
		if err := rows.Scan(
			&s.Criterion,
			&s.Metric,
			&s.Items,
			&s.MeanScore,
			&s.Full,
			&s.Partial,
			&s.Defaulted,
			&s.Tied,
			&s.OutOfDomain,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run summary: %w", err)
	}

	return summaries, nil
}
