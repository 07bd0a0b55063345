package prechecks

import (
	"regexp"
	"strings"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

type FormatChecker struct {
}

func NewFormatChecker() *FormatChecker {
	return &FormatChecker{}
}

var (
	repeatedPunctuation = regexp.MustCompile(`[!?.]{4,}`)
	leftoverPlaceholder = regexp.MustCompile(`\{\{\s*[A-Z_]+\s*\}\}`)
)

func (c *FormatChecker) Check(req models.GradeRequest) Result {
	result := Result{Name: "format-checker"}
	summary := strings.TrimSpace(req.CandidateOutput)

	switch {
	case len(summary) == 0:
		result.Reason = "Empty summary"
	case len(strings.Fields(summary)) < 3:
		result.Reason = "Summary has fewer than three words"
	case leftoverPlaceholder.MatchString(summary) || leftoverPlaceholder.MatchString(req.TaskPrompt):
		result.Reason = "Input contains a template placeholder"
	case repeatedPunctuation.MatchString(summary):
		result.Score = 0.5
		result.Reason = "Summary contains repeated punctuation"
	default:
		result.Score = 1.0
		result.Reason = "Valid summary"
	}
	return result
}
