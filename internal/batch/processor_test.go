package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

type fakeGrader struct {
	mu       sync.Mutex
	seen     []string
	inFlight atomic.Int32
	peak     atomic.Int32
	fail     map[string]error
}

func (g *fakeGrader) Execute(ctx context.Context, runID string, req models.GradeRequest) (models.ItemResult, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		peak := g.peak.Load()
		if n <= peak || g.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	g.mu.Lock()
	g.seen = append(g.seen, req.ItemID)
	g.mu.Unlock()

	if err := g.fail[req.ItemID]; err != nil {
		return models.ItemResult{RunID: runID, ItemID: req.ItemID, Error: err.Error()}, err
	}
	return models.ItemResult{
		RunID:  runID,
		ItemID: req.ItemID,
		Scores: []models.AggregatedScore{{ItemID: req.ItemID, Criterion: "completeness", Score: 1, Coverage: models.CoverageFull}},
	}, nil
}

func TestProcessor_Process(t *testing.T) {
	grader := &fakeGrader{fail: map[string]error{"bad": errors.New("task not found: fluency")}}

	records := []InputRecord{
		{Request: models.GradeRequest{ItemID: "a"}, LineNumber: 1},
		{Request: models.GradeRequest{ItemID: "b"}, LineNumber: 2},
		{LineNumber: 3, Error: errors.New("line 3: invalid character")},
		{Request: models.GradeRequest{ItemID: "bad"}, LineNumber: 4},
		{Request: models.GradeRequest{ItemID: "c"}, LineNumber: 5},
		{Request: models.GradeRequest{ItemID: "d"}, LineNumber: 6},
	}

	processor := NewProcessor(grader, 2, "run-42", newTestLogger())

	var results []models.ItemResult
	for r := range processor.Process(context.Background(), records) {
		results = append(results, r)
	}

	if len(results) != len(records) {
		t.Fatalf("Expected %d results, got %d", len(records), len(results))
	}

	errs := 0
	for _, r := range results {
		if r.RunID != "run-42" {
			t.Errorf("Expected run id on every result, got %q", r.RunID)
		}
		if r.Error != "" {
			errs++
		}
	}
	if errs != 2 {
		t.Errorf("Expected 2 error results, got %d", errs)
	}
	if len(grader.seen) != 5 {
		t.Errorf("Expected decode failures to skip grading, grader saw %v", grader.seen)
	}
	if peak := grader.peak.Load(); peak > 2 {
		t.Errorf("Expected at most 2 concurrent items, got %d", peak)
	}
}

func TestProcessor_Cancelled(t *testing.T) {
	grader := &fakeGrader{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]InputRecord, 50)
	for i := range records {
		records[i] = InputRecord{Request: models.GradeRequest{ItemID: "x"}}
	}

	count := 0
	for range NewProcessor(grader, 4, "", newTestLogger()).Process(ctx, records) {
		count++
	}
	if count != 0 {
		t.Errorf("Expected no results after cancellation, got %d", count)
	}
}

func TestWriter_JSONL(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatJSONL, "run", newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	for _, id := range []string{"a", "b"} {
		if err := w.Write(models.ItemResult{ItemID: id, Scores: []models.AggregatedScore{{Criterion: "completeness", Score: 1}}}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	var decoded models.ItemResult
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil {
		t.Fatalf("Invalid JSONL line: %v", err)
	}
	if decoded.ItemID != "b" {
		t.Errorf("Expected item b, got %q", decoded.ItemID)
	}
	if w.Report().Items != 2 {
		t.Errorf("Expected report over 2 items, got %d", w.Report().Items)
	}
}

func TestWriter_Summary(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatSummary, "run-s", newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	_ = w.Write(models.ItemResult{ItemID: "a", Scores: []models.AggregatedScore{{Criterion: "completeness", Metric: "medsummary_completeness", Score: 1, Coverage: models.CoverageFull}}})
	if buf.Len() != 0 {
		t.Error("Summary format should not write before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !strings.Contains(buf.String(), "medsummary_completeness") {
		t.Errorf("Expected summary table, got:\n%s", buf.String())
	}
}

func TestWriter_UnknownFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "csv", "", newTestLogger()); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestRecordings_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	recorder := NewJSONLRecorder(&buf)

	inner := judge.NewStaticJudge(models.JudgeIdentity{Key: "oai"}, `{"completeness":{"score":1,"explanation":"ok"}}`)
	recording := judge.NewRecordingJudge(inner, recorder)

	if _, err := recording.Infer(context.Background(), "prompt one"); err != nil {
		t.Fatalf("Infer failed: %v", err)
	}

	recordings, err := LoadRecordings(strings.NewReader(buf.String() + "\n"))
	if err != nil {
		t.Fatalf("LoadRecordings failed: %v", err)
	}
	if len(recordings) != 1 {
		t.Fatalf("Expected 1 recording, got %d", len(recordings))
	}

	replay := judge.NewReplayJudge(models.JudgeIdentity{Key: "oai"}, recordings)
	text, err := replay.Infer(context.Background(), "prompt one")
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if !strings.Contains(text, `"score":1`) {
		t.Errorf("Unexpected replayed text %q", text)
	}
	if _, err := replay.Infer(context.Background(), "prompt two"); err == nil {
		t.Error("Expected unrecorded prompt to fail")
	}
}

func TestLoadRecordings_Invalid(t *testing.T) {
	if _, err := LoadRecordings(strings.NewReader("{not json}\n")); err == nil {
		t.Error("Expected error")
	}
}
