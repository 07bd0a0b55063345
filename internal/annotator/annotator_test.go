package annotator

import (
	"context"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/criteria"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/judge/mocks"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/prompt"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func testTask() Task {
	return Task{
		Name:     "completeness",
		Template: prompt.MustTemplate("completeness", "Prompt: {{QUESTION}}\nSummary: {{RESPONSE}}"),
		Schema:   criteria.MustSchema(criteria.NewSpec("completeness")),
	}
}

func id(key string) models.JudgeIdentity {
	return models.JudgeIdentity{Key: key, ModelName: "m/" + key, ModelDeployment: "m/" + key}
}

var testItem = models.GradedItem{
	ItemID:          "study-17",
	TaskPrompt:      `{"outcomes": {"stroke!pvalue": 0.01}}`,
	CandidateOutput: "Stroke risk was lower in the treated cohort.",
}

func TestAnnotate_RendersOnceAndParsesEachJudge(t *testing.T) {
	ctrl := gomock.NewController(t)

	var prompts []string
	capture := mocks.NewMockJudge(ctrl)
	capture.EXPECT().Identity().Return(id("oai")).AnyTimes()
	capture.EXPECT().Infer(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, p string) (string, error) {
		prompts = append(prompts, p)
		return `{"completeness": {"score": 1, "explanation": "stroke mentioned"}}`, nil
	})

	panel, err := judge.NewPanel(
		capture,
		judge.NewStaticJudge(id("claude"), "```json\n{\"completeness\": {\"score\": 1, \"explanation\": \"ok\"}}\n```"),
		judge.NewStaticJudge(id("gemini"), "I think the summary is complete."),
	)
	if err != nil {
		t.Fatalf("NewPanel failed: %v", err)
	}

	a, err := New(testTask(), panel, nil, testLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	annotation := a.Annotate(context.Background(), testItem)

	if len(prompts) != 1 {
		t.Fatalf("Expected one call to oai, got %d", len(prompts))
	}
	if !strings.Contains(prompts[0], testItem.TaskPrompt) || !strings.Contains(prompts[0], testItem.CandidateOutput) {
		t.Errorf("Judge did not receive the rendered prompt: %q", prompts[0])
	}

	if annotation.ItemID != "study-17" || annotation.Task != "completeness" {
		t.Errorf("Unexpected annotation header %+v", annotation)
	}
	if len(annotation.Outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(annotation.Outcomes))
	}

	if v := annotation.Outcomes["oai"].Verdicts["completeness"]; v.Score != 1 || v.Explanation != "stroke mentioned" {
		t.Errorf("Unexpected oai verdict %+v", v)
	}
	if annotation.Outcomes["claude"].Failure != nil {
		t.Errorf("Expected fenced JSON to parse, got %+v", annotation.Outcomes["claude"].Failure)
	}
	gemini := annotation.Outcomes["gemini"]
	if gemini.Failure == nil || gemini.Failure.Kind != models.FailureInvalidJSON {
		t.Errorf("Expected invalid_json for gemini, got %+v", gemini.Failure)
	}
	if gemini.Raw != "I think the summary is complete." {
		t.Errorf("Expected raw text kept for failed parse, got %q", gemini.Raw)
	}
}

func TestAnnotate_DispatchErrorBecomesFailure(t *testing.T) {
	panel, _ := judge.NewPanel(
		judge.NewReplayJudge(id("oai"), nil),
		judge.NewStaticJudge(id("claude"), `{"completeness": {"score": 0, "explanation": "missed stroke"}}`),
	)
	a, err := New(testTask(), panel, nil, testLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	annotation := a.Annotate(context.Background(), testItem)

	oai := annotation.Outcomes["oai"]
	if oai.Failure == nil || !oai.Failure.IsDispatch() {
		t.Errorf("Expected dispatch error for oai, got %+v", oai.Failure)
	}
	if len(oai.Verdicts) != 0 {
		t.Errorf("Expected no verdicts for failed judge, got %+v", oai.Verdicts)
	}

	outcomes := annotation.ForCriterion("completeness")
	if len(outcomes) != 2 {
		t.Fatalf("Expected 2 criterion outcomes, got %d", len(outcomes))
	}
	// Sorted by judge key.
	if outcomes[0].JudgeKey != "claude" || outcomes[0].Verdict == nil || outcomes[0].Verdict.Score != 0 {
		t.Errorf("Unexpected claude outcome %+v", outcomes[0])
	}
	if outcomes[1].JudgeKey != "oai" || outcomes[1].Failure == nil {
		t.Errorf("Unexpected oai outcome %+v", outcomes[1])
	}
}

func TestNew_Validation(t *testing.T) {
	panel, _ := judge.NewPanel(judge.NewStaticJudge(id("oai"), "{}"))

	if _, err := New(Task{Name: "x", Schema: testTask().Schema}, panel, nil, testLogger()); err == nil {
		t.Error("Expected error for missing template")
	}
	if _, err := New(Task{Name: "x", Template: testTask().Template}, panel, nil, testLogger()); err == nil {
		t.Error("Expected error for empty schema")
	}
	if _, err := New(testTask(), nil, nil, testLogger()); err == nil {
		t.Error("Expected error for nil panel")
	}
}
