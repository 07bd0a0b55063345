package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/judge"
)

// JSONLRecorder appends judge recordings to a JSONL stream. It is safe for concurrent use.
type JSONLRecorder struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func NewJSONLRecorder(out io.Writer) *JSONLRecorder {
	return &JSONLRecorder{encoder: json.NewEncoder(out)}
}

func (r *JSONLRecorder) Record(rec judge.Recording) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encoder.Encode(rec)
}

// LoadRecordings reads recordings written by JSONLRecorder.
func LoadRecordings(in io.Reader) ([]judge.Recording, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var recordings []judge.Recording
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec judge.Recording
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("recording line %d: %w", line, err)
		}
		recordings = append(recordings, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading recordings: %w", err)
	}
	return recordings, nil
}
