package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/criteria"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

// ParseResponse parses a judge response attributed to its own judge and item.
func ParseResponse(resp models.RawJudgeResponse, schema criteria.Schema) (map[string]models.Verdict, *models.Failure) {
	return Parse(resp.JudgeKey, resp.ItemID, resp.Text, schema)
}

// Parse decodes one judge's raw response into a Verdict per schema criterion.
// Any deviation from the schema fails the whole response; nothing is defaulted.
func Parse(judgeKey, itemID, rawText string, schema criteria.Schema) (map[string]models.Verdict, *models.Failure) {
	fail := func(kind models.FailureKind, reason string) *models.Failure {
		return &models.Failure{JudgeKey: judgeKey, ItemID: itemID, Kind: kind, Reason: reason}
	}

	top, err := decodeObject(StripMarkdownCodeBlock(rawText))
	if err != nil {
		return nil, fail(models.FailureInvalidJSON, string(models.FailureInvalidJSON))
	}

	verdicts := make(map[string]models.Verdict, schema.Len())
	for _, spec := range schema.Specs() {
		fields, missing := criterionFields(top, spec)
		if missing != "" {
			return nil, fail(models.FailureMissingField, fmt.Sprintf("missing_field:%s.%s", spec.Name, missing))
		}

		score, ok := coerceScore(fields[criteria.FieldScore])
		if !ok {
			return nil, fail(models.FailureInvalidScore, fmt.Sprintf("invalid_score:%s", spec.Name))
		}

		var explanation string
		if err := json.Unmarshal(fields[criteria.FieldExplanation], &explanation); err != nil {
			return nil, fail(models.FailureInvalidField, fmt.Sprintf("invalid_field:%s.%s", spec.Name, criteria.FieldExplanation))
		}

		verdicts[spec.Name] = models.Verdict{
			JudgeKey:    judgeKey,
			ItemID:      itemID,
			Criterion:   spec.Name,
			Score:       score,
			Explanation: explanation,
			OutOfDomain: score != 0 && score != 1,
		}
	}

	return verdicts, nil
}

// decodeObject requires a single JSON object with nothing after it.
func decodeObject(text string) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	var top map[string]json.RawMessage
	if err := dec.Decode(&top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, fmt.Errorf("top level value is not an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return top, nil
}

// criterionFields returns the required sub-fields of one criterion, or the first missing field name.
// A criterion that is absent or not an object is missing all of its fields.
func criterionFields(top map[string]json.RawMessage, spec criteria.Spec) (map[string]json.RawMessage, string) {
	var fields map[string]json.RawMessage
	if raw, ok := top[spec.Name]; ok {
		if err := json.Unmarshal(raw, &fields); err != nil {
			fields = nil
		}
	}

	for _, name := range spec.RequiredFields {
		raw, ok := fields[name]
		if !ok || isNull(raw) {
			return nil, name
		}
	}
	return fields, ""
}

func coerceScore(raw json.RawMessage) (float64, bool) {
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}

	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		n = json.Number(strings.TrimSpace(t))
	default:
		return 0, false
	}

	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// StripMarkdownCodeBlock removes one surrounding markdown code fence if present.
func StripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "```") {
		return content
	}

	firstNewline := strings.Index(content, "\n")
	if firstNewline == -1 {
		return content
	}

	closing := strings.LastIndex(content, "```")
	if closing <= firstNewline {
		return content
	}

	return strings.TrimSpace(content[firstNewline+1 : closing])
}
