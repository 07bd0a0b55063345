package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

// Grader is the part of executor.Executor exposed as tools.
type Grader interface {
	Execute(ctx context.Context, runID string, req models.GradeRequest) (models.ItemResult, error)
	ExecuteTask(ctx context.Context, runID, task string, req models.GradeRequest) (models.ItemResult, error)
}

// GradeSummaryInput is the MCP tool input schema (matches HTTP API field names).
type GradeSummaryInput struct {
	ItemID          string   `json:"item_id,omitempty" jsonschema:"item identifier, generated when empty"`
	TaskPrompt      string   `json:"task_prompt" jsonschema:"source abstract the summary was written from"`
	CandidateOutput string   `json:"candidate_output" jsonschema:"plain-language summary to grade"`
	Tasks           []string `json:"tasks,omitempty" jsonschema:"subset of direction_of_effect, numbers_accurate, completeness; all when empty"`
}

type GradeSummaryTaskInput struct {
	Task            string `json:"task" jsonschema:"task name: direction_of_effect, numbers_accurate or completeness"`
	ItemID          string `json:"item_id,omitempty" jsonschema:"item identifier, generated when empty"`
	TaskPrompt      string `json:"task_prompt" jsonschema:"source abstract the summary was written from"`
	CandidateOutput string `json:"candidate_output" jsonschema:"plain-language summary to grade"`
}

// NewServer registers the grading tools on a fresh MCP server.
func NewServer(grader Grader, version string, logger *zerolog.Logger) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "jury-agent",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "grade_summary",
		Description: "Grade a plain-language summary of a medical abstract with an LLM jury on direction of effect, numeric accuracy and completeness",
	}, NewGradeSummaryHandler(grader, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "grade_summary_task",
		Description: "Grade a summary on a single task. Faster than grading every task.",
	}, NewGradeSummaryTaskHandler(grader, logger))

	return server
}

// NewGradeSummaryHandler returns a tool handler that uses the given grader.
// Pass the returned function to mcp.AddTool.
func NewGradeSummaryHandler(grader Grader, logger *zerolog.Logger) func(context.Context, *mcp.CallToolRequest, GradeSummaryInput) (*mcp.CallToolResult, models.ItemResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GradeSummaryInput) (*mcp.CallToolResult, models.ItemResult, error) {
		logger.Info().Str("item_id", input.ItemID).Strs("tasks", input.Tasks).Msg("grade_summary called")

		result, err := grader.Execute(ctx, "", models.GradeRequest{
			ItemID:          input.ItemID,
			TaskPrompt:      input.TaskPrompt,
			CandidateOutput: input.CandidateOutput,
			Tasks:           input.Tasks,
		})
		return nil, result, err
	}
}

// NewGradeSummaryTaskHandler returns a tool handler for single task grading.
func NewGradeSummaryTaskHandler(grader Grader, logger *zerolog.Logger) func(context.Context, *mcp.CallToolRequest, GradeSummaryTaskInput) (*mcp.CallToolResult, models.ItemResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GradeSummaryTaskInput) (*mcp.CallToolResult, models.ItemResult, error) {
		logger.Info().Str("item_id", input.ItemID).Str("task", input.Task).Msg("grade_summary_task called")

		result, err := grader.ExecuteTask(ctx, "", input.Task, models.GradeRequest{
			ItemID:          input.ItemID,
			TaskPrompt:      input.TaskPrompt,
			CandidateOutput: input.CandidateOutput,
		})
		return nil, result, err
	}
}
