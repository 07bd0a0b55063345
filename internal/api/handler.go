package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/aggregator"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/executor"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

// Grader is the part of executor.Executor the API serves.
type Grader interface {
	Tasks() []string
	Metric(task string) (aggregator.JuryMetric, bool)
	Execute(ctx context.Context, runID string, req models.GradeRequest) (models.ItemResult, error)
	ExecuteTask(ctx context.Context, runID, task string, req models.GradeRequest) (models.ItemResult, error)
}

type Handler struct {
	grader Grader
	judges []models.JudgeIdentity
	logger *zerolog.Logger
}

func NewHandler(grader Grader, judges []models.JudgeIdentity, logger *zerolog.Logger) *Handler {
	return &Handler{
		grader: grader,
		judges: judges,
		logger: logger,
	}
}

// POST /api/v1/grade
// Body: GradeRequest
// Returns: ItemResult
func (h *Handler) Grade(req *restful.Request, resp *restful.Response) {
	var gradeRequest models.GradeRequest
	if err := req.ReadEntity(&gradeRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("item_id", gradeRequest.ItemID).
		Strs("tasks", gradeRequest.Tasks).
		Msg("Start grading")

	result, err := h.grader.Execute(req.Request.Context(), "", gradeRequest)
	h.writeResult(resp, result, err)
}

// POST /api/v1/grade/{task}
func (h *Handler) GradeTask(req *restful.Request, resp *restful.Response) {
	task := req.PathParameter("task")

	var gradeRequest models.GradeRequest
	if err := req.ReadEntity(&gradeRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("item_id", gradeRequest.ItemID).
		Str("task", task).
		Msg("Start grading")

	result, err := h.grader.ExecuteTask(req.Request.Context(), "", task, gradeRequest)
	h.writeResult(resp, result, err)
}

func (h *Handler) writeResult(resp *restful.Response, result models.ItemResult, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, executor.ErrTaskNotFound):
			status = http.StatusNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusServiceUnavailable
		}
		h.logger.Error().Err(err).Str("item_id", result.ItemID).Msg("Grading failed")
		middleware.HandleError(resp, err, status)
		return
	}

	h.logger.Info().
		Str("run_id", result.RunID).
		Str("item_id", result.ItemID).
		Int("scores", len(result.Scores)).
		Dur("duration", result.Duration).
		Msg("Grading complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// GET /api/v1/tasks
func (h *Handler) Tasks(req *restful.Request, resp *restful.Response) {
	out := TasksResponse{Judges: h.judges}
	for _, name := range h.grader.Tasks() {
		metric, _ := h.grader.Metric(name)
		out.Tasks = append(out.Tasks, TaskInfo{
			Name:         name,
			Metric:       metric.Name,
			Criterion:    metric.Criterion,
			DefaultScore: metric.DefaultScore,
		})
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, out)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
