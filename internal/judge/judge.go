package judge

import (
	"context"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

//go:generate mockgen -destination=mocks/mock_judge.go -package=mocks . Judge

// Judge is one juror: an identity plus the ability to answer a rendered prompt with raw text.
type Judge interface {
	Identity() models.JudgeIdentity
	Infer(ctx context.Context, prompt string) (string, error)
}
