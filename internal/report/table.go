package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

func newTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// WriteTable renders the report as two markdown tables: criteria, then judges.
func WriteTable(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "run %s: %d items, %d errors\n\n", r.RunID, r.Items, r.Errors); err != nil {
		return err
	}

	criteria := newTable([]string{"Metric", "Items", "Mean", "Full", "Partial", "Defaulted", "Tied", "Out of domain", "Agreement", "Kappa"}, w)
	for _, c := range r.Criteria {
		name := c.Metric
		if name == "" {
			name = c.Criterion
		}
		agreement, kappa := "-", "-"
		if c.Agreement != nil {
			agreement = fmt.Sprintf("%.3f (%d/%d)", c.Agreement.Rate, c.Agreement.Agree, c.Agreement.Labeled)
			kappa = fmt.Sprintf("%.3f", c.Agreement.CohensKappa)
		}
		if err := criteria.Append([]string{
			name,
			fmt.Sprint(c.Items),
			fmt.Sprintf("%.3f", c.MeanScore),
			fmt.Sprint(c.Full),
			fmt.Sprint(c.Partial),
			fmt.Sprint(c.Defaulted),
			fmt.Sprint(c.Tied),
			fmt.Sprint(c.OutOfDomain),
			agreement,
			kappa,
		}); err != nil {
			return err
		}
	}
	if err := criteria.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	judges := newTable([]string{"Judge", "Outcomes", "Failures"}, w)
	for _, j := range r.Judges {
		if err := judges.Append([]string{j.JudgeKey, fmt.Sprint(j.Outcomes), formatFailures(j.Failures)}); err != nil {
			return err
		}
	}
	return judges.Render()
}

func formatFailures[K ~string](failures map[K]int) string {
	if len(failures) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(failures))
	for kind, n := range failures {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
