package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// =============================================================================
// SUMMARY - What operators read after a batch
// =============================================================================

// Summary is the end-of-batch report: every order needing attention and
// every file written.
type Summary struct {
	RunID      string           `json:"runId"`
	Pipeline   string           `json:"pipeline"`
	Seen       int              `json:"seen"`
	Produced   int              `json:"produced"`
	Skipped    int              `json:"skipped"`
	Flagged    []string         `json:"flagged"`
	Unresolved []woc.Diagnostic `json:"unresolved"`
	Warnings   int              `json:"warnings"`
	Files      []string         `json:"files"`
}

func (res *Result) Summary() Summary {
	warnings := 0
	for _, e := range res.Entries {
		if e.Level == woc.LevelWarn {
			warnings++
		}
	}
	return Summary{
		RunID:      res.RunID,
		Pipeline:   res.Pipeline,
		Seen:       res.Seen,
		Produced:   len(res.Rows) + len(res.Sheets),
		Skipped:    len(res.Skipped),
		Flagged:    res.Diagnostics.FlaggedItems(),
		Unresolved: res.Diagnostics.OfKind(woc.KindUnresolved),
		Warnings:   warnings,
		Files:      append([]string(nil), res.Files...),
	}
}

// String renders the summary as plain lines for the terminal.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s run %s: %d orders, %d produced, %d skipped, %d warnings\n",
		s.Pipeline, s.RunID, s.Seen, s.Produced, s.Skipped, s.Warnings)
	if len(s.Flagged) > 0 {
		b.WriteString("Needs attention:\n")
		for _, item := range s.Flagged {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	if len(s.Unresolved) > 0 {
		b.WriteString("Unresolved fields:\n")
		for _, d := range s.Unresolved {
			fmt.Fprintf(&b, "  - %s: %s\n", d.Item, d.Field)
		}
	}
	if len(s.Files) > 0 {
		b.WriteString("Files:\n")
		for _, f := range s.Files {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}
	return b.String()
}

// logDiagnostics replays the batch's diagnostics through the logger, then
// the summary line.
func (r *Runner) logDiagnostics(res *Result) {
	for _, d := range res.Entries {
		fields := []zap.Field{
			zap.String("run_id", res.RunID),
			zap.String("kind", string(d.Kind)),
			zap.String("item", d.Item),
		}
		if d.Field != "" {
			fields = append(fields, zap.String("field", d.Field))
		}
		if d.Level == woc.LevelWarn {
			r.Logger.Warn(d.Message, fields...)
		} else {
			r.Logger.Info(d.Message, fields...)
		}
	}

	s := res.Summary()
	r.Logger.Info("Batch finished",
		zap.String("run_id", s.RunID),
		zap.String("pipeline", s.Pipeline),
		zap.Int("seen", s.Seen),
		zap.Int("produced", s.Produced),
		zap.Int("skipped", s.Skipped),
		zap.Strings("flagged", s.Flagged))
}
