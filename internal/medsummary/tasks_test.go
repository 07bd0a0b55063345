package medsummary

import (
	"strings"
	"testing"
)

func TestDefinitions(t *testing.T) {
	defs, err := Definitions()
	if err != nil {
		t.Fatalf("Definitions failed: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("Expected 3 definitions, got %d", len(defs))
	}

	want := map[string]string{
		CriterionDirection:    MetricDirection,
		CriterionNumbers:      MetricNumbers,
		CriterionCompleteness: MetricCompleteness,
	}

	for _, def := range defs {
		metric, ok := want[def.Task.Name]
		if !ok {
			t.Errorf("Unexpected task %s", def.Task.Name)
			continue
		}
		if def.Metric.Name != metric {
			t.Errorf("Task %s: expected metric %s, got %s", def.Task.Name, metric, def.Metric.Name)
		}
		if def.Metric.Criterion != def.Task.Name {
			t.Errorf("Task %s: metric reads criterion %s", def.Task.Name, def.Metric.Criterion)
		}
		if def.Metric.DefaultScore != 0.0 {
			t.Errorf("Task %s: expected default 0.0, got %f", def.Task.Name, def.Metric.DefaultScore)
		}
		names := def.Task.Schema.Names()
		if len(names) != 1 || names[0] != def.Task.Name {
			t.Errorf("Task %s: unexpected schema %v", def.Task.Name, names)
		}
		// The output format block names the criterion key the parser expects.
		if !strings.Contains(def.Task.Template.Text(), `"`+def.Task.Name+`": {`) {
			t.Errorf("Template for %s does not show its criterion key", def.Task.Name)
		}
	}
}

func TestCompletenessTemplate_KeepsPValueRule(t *testing.T) {
	if !strings.Contains(completenessTemplate, "'!pvalue'") {
		t.Error("Completeness template lost the !pvalue rule")
	}
	if !strings.Contains(completenessTemplate, `return "CORRECT"`) {
		t.Error("Completeness template lost the no-pvalue instruction")
	}
}

func TestDefaultPanel(t *testing.T) {
	panel := DefaultPanel()
	keys := map[string]bool{}
	for _, j := range panel {
		keys[j.Key] = true
		if j.ModelName == "" || j.ModelDeployment == "" {
			t.Errorf("Judge %s has empty model identity", j.Key)
		}
	}
	for _, k := range []string{"oai", "claude", "gemini"} {
		if !keys[k] {
			t.Errorf("Missing judge %s", k)
		}
	}
}
