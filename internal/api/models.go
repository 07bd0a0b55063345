package api

import (
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type TaskInfo struct {
	Name         string  `json:"name"`
	Metric       string  `json:"metric"`
	Criterion    string  `json:"criterion_name"`
	DefaultScore float64 `json:"default_score"`
}

type TasksResponse struct {
	Tasks  []TaskInfo             `json:"tasks"`
	Judges []models.JudgeIdentity `json:"judges"`
}
