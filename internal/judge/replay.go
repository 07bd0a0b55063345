package judge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

// Recording is one judge answer captured for later replay.
type Recording struct {
	JudgeKey   string `json:"judge_key"`
	PromptHash string `json:"prompt_sha256"`
	Text       string `json:"text"`
}

// PromptHash identifies a rendered prompt independently of the item it came from.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// ReplayJudge serves previously recorded answers. A prompt it has no answer for
// is reported as a dispatch error, so re-scoring never silently invents verdicts.
type ReplayJudge struct {
	identity models.JudgeIdentity
	answers  map[string]string
}

func NewReplayJudge(identity models.JudgeIdentity, recordings []Recording) *ReplayJudge {
	answers := make(map[string]string)
	for _, rec := range recordings {
		if rec.JudgeKey == identity.Key {
			answers[rec.PromptHash] = rec.Text
		}
	}
	return &ReplayJudge{identity: identity, answers: answers}
}

// NewStaticJudge answers every prompt with the same text.
func NewStaticJudge(identity models.JudgeIdentity, text string) *ReplayJudge {
	return &ReplayJudge{identity: identity, answers: map[string]string{"*": text}}
}

func (j *ReplayJudge) Identity() models.JudgeIdentity {
	return j.identity
}

func (j *ReplayJudge) Infer(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if text, ok := j.answers[PromptHash(prompt)]; ok {
		return text, nil
	}
	if text, ok := j.answers["*"]; ok {
		return text, nil
	}
	return "", fmt.Errorf("judge %s: no recorded answer for prompt %s", j.identity.Key, PromptHash(prompt)[:12])
}

// Recorder receives every successful answer of a RecordingJudge.
type Recorder interface {
	Record(rec Recording) error
}

// RecordingJudge passes calls through to another judge and records its answers.
type RecordingJudge struct {
	Judge
	recorder Recorder
}

func NewRecordingJudge(inner Judge, recorder Recorder) *RecordingJudge {
	return &RecordingJudge{Judge: inner, recorder: recorder}
}

func (j *RecordingJudge) Infer(ctx context.Context, prompt string) (string, error) {
	text, err := j.Judge.Infer(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := j.recorder.Record(Recording{
		JudgeKey:   j.Judge.Identity().Key,
		PromptHash: PromptHash(prompt),
		Text:       text,
	}); err != nil {
		return "", fmt.Errorf("judge %s: recording answer: %w", j.Judge.Identity().Key, err)
	}
	return text, nil
}

func (j *RecordingJudge) Timeout() time.Duration {
	if tj, ok := j.Judge.(timeoutJudge); ok {
		return tj.Timeout()
	}
	return 0
}

// MemoryRecorder keeps recordings in memory. It is safe for concurrent use.
type MemoryRecorder struct {
	mu         sync.Mutex
	recordings []Recording
}

func (r *MemoryRecorder) Record(rec Recording) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordings = append(r.recordings, rec)
	return nil
}

func (r *MemoryRecorder) Recordings() []Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recording, len(r.recordings))
	copy(out, r.recordings)
	return out
}
