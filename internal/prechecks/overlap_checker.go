package prechecks

import (
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

type OverlapChecker struct {
	MinOverlapThreshold float64
}

func NewOverlapChecker() *OverlapChecker {
	return &OverlapChecker{MinOverlapThreshold: 0.2}
}

// Check reports the share of the summary's content words that also appear in
// the abstract. A plain-language summary rewords, but never shares almost nothing.
func (c *OverlapChecker) Check(req models.GradeRequest) Result {
	threshold := c.MinOverlapThreshold
	if threshold == 0.0 {
		threshold = 0.1
	}

	result := Result{Name: "overlap-checker"}

	if len(req.TaskPrompt) == 0 {
		result.Reason = "Empty abstract"
		return result
	}

	summaryTokens := extractUniqueTokens(tokenize(req.CandidateOutput))
	if len(summaryTokens) == 0 {
		result.Reason = "Empty summary"
		return result
	}
	abstractTokens := extractUniqueTokens(tokenize(req.TaskPrompt))

	count := 0
	for token := range summaryTokens {
		if abstractTokens[token] {
			count++
		}
	}

	result.Score = float64(count) / float64(len(summaryTokens))
	if result.Score < threshold {
		result.Reason = fmt.Sprintf("Low keyword overlap: %.0f%% of summary terms found in abstract", result.Score*100)
	} else {
		result.Score = 1.0
		result.Reason = "There is a good overlap"
	}
	return result
}

func extractUniqueTokens(tokens []string) map[string]bool {
	unique := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		unique[t] = true
	}
	return unique
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"of": true, "at": true, "by": true, "for": true, "with": true,
	"about": true, "against": true, "between": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"to": true, "from": true, "in": true, "on": true, "and": true,
	"or": true, "than": true, "that": true, "this": true, "it": true,
}

func tokenize(s string) []string {
	s = strings.ToLower(s)
	s = removePunctuation(s)

	tokens := []string{}
	for word := range strings.FieldsSeq(s) {
		if !stopWords[word] && len(word) > 1 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func removePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(".,!?;:()[]{}\"'", r) {
			return -1
		}
		return r
	}, s)
}
