package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/report"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Writer writes item results as JSONL, or collects them into a report table written on Close.
type Writer struct {
	out     io.Writer
	format  string
	encoder *json.Encoder
	builder *report.Builder
	logger  *zerolog.Logger
}

func NewWriter(out io.Writer, format, runID string, logger *zerolog.Logger) (*Writer, error) {
	w := &Writer{
		out:     out,
		format:  format,
		builder: report.NewBuilder(runID),
		logger:  logger,
	}

	switch format {
	case FormatJSONL:
		w.encoder = json.NewEncoder(out)
	case FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return w, nil
}

func (w *Writer) Write(result models.ItemResult) error {
	w.builder.Add(result)
	if w.encoder != nil {
		if err := w.encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to write result %s: %w", result.ItemID, err)
		}
	}
	return nil
}

// Report returns the summary of everything written so far.
func (w *Writer) Report() report.Report {
	return w.builder.Report()
}

func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}
	r := w.builder.Report()
	w.logger.Debug().Int("items", r.Items).Msg("writing summary table")
	return report.WriteTable(w.out, r)
}
