package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

const maxLineSize = 4 * 1024 * 1024

// InputRecord is one JSONL line: a decoded request or the reason it could not be decoded.
type InputRecord struct {
	Request    models.GradeRequest
	LineNumber int
	Error      error
}

type Reader struct {
	input  io.Reader
	logger *zerolog.Logger
}

func NewReader(input io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{input: input, logger: logger}
}

// ReadAll streams records until the input ends or ctx is cancelled. Blank lines are skipped.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.input)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			record := InputRecord{LineNumber: line}
			if err := json.Unmarshal([]byte(text), &record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: %w", line, err)
				r.logger.Warn().Int("line", line).Err(err).Msg("skipping malformed record")
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case out <- InputRecord{LineNumber: line + 1, Error: fmt.Errorf("reading input: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
