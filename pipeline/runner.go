/*
Package pipeline runs the two batch conversions over a WOC export.

PURPOSE:
  A batch is one pass over the uploaded orders: inclusion filter, then
  extraction and classification per order, then assembly into Monday rows
  or work-order sheets. Orders are independent; a per-order problem stays
  in that order's diagnostics and the batch carries on. Only a fatal setup
  error aborts.

KEY CONCEPTS:
  - Runner: the assembled pipeline (lookups, filters, renderer, logger,
    metrics), built once at startup and reused across batches
  - Result: rows or sheets of one batch, plus its run id, skipped orders,
    diagnostics and the files written for it

SEE ALSO:
  - summary.go: End-of-batch report
  - tables.go:  Lookup table loading per configured source
*/
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/calendar"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/config"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/extract"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/metrics"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/monday"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/workorder"
)

// Pipeline names, used in logs and metric labels.
const (
	PipelineMonday     = "monday"
	PipelineWorkOrders = "workorders"
)

type Runner struct {
	Assembler       *monday.Assembler
	Builder         *workorder.Builder
	Renderer        *workorder.Renderer
	MondayFilter    woc.Filter
	WorkOrderFilter woc.Filter
	Logger          *zap.Logger
	Metrics         *metrics.Registry
}

// New wires a Runner over loaded tables. A nil logger logs nothing; nil
// metrics record nothing.
func New(tables *lookup.Tables, cfg *config.Config, logger *zap.Logger, reg *metrics.Registry) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	asm := monday.NewAssembler(tables, calendar.Norwegian{})
	asm.BookingDays = cfg.Schedule.BookingDays
	return &Runner{
		Assembler:       asm,
		Builder:         workorder.NewBuilder(tables),
		Renderer:        workorder.NewRenderer(),
		MondayFilter:    woc.NewFilter(cfg.Filter.MondayStatuses),
		WorkOrderFilter: woc.NewFilter(cfg.Filter.WorkOrderStatuses),
		Logger:          logger,
		Metrics:         reg,
	}
}

// Skip is one order left out by the inclusion filter.
type Skip struct {
	Index  int            `json:"index"`
	Item   string         `json:"item"`
	Reason woc.SkipReason `json:"reason"`
}

// Result is the outcome of one batch.
type Result struct {
	RunID       string             `json:"runId"`
	Pipeline    string             `json:"pipeline"`
	Seen        int                `json:"seen"`
	Rows        []monday.Assembled `json:"rows,omitempty"`
	Sheets      []workorder.Sheet  `json:"sheets,omitempty"`
	Skipped     []Skip             `json:"skipped,omitempty"`
	Files       []string           `json:"files,omitempty"`
	Diagnostics *woc.Diagnostics   `json:"-"`
	Entries     []woc.Diagnostic   `json:"diagnostics"`
	started     time.Time
}

// MondayRows returns just the board rows.
func (res *Result) MondayRows() []monday.Row {
	rows := make([]monday.Row, len(res.Rows))
	for i, a := range res.Rows {
		rows[i] = a.Row
	}
	return rows
}

func (res *Result) skipCounts() map[woc.SkipReason]int {
	counts := make(map[woc.SkipReason]int)
	for _, s := range res.Skipped {
		counts[s.Reason]++
	}
	return counts
}

func (r *Runner) begin(pipeline string, orders []woc.Order) *Result {
	res := &Result{
		RunID:       uuid.New().String(),
		Pipeline:    pipeline,
		Seen:        len(orders),
		Diagnostics: woc.NewDiagnostics(),
		started:     time.Now(),
	}
	r.Logger.Info("Batch started",
		zap.String("run_id", res.RunID),
		zap.String("pipeline", pipeline),
		zap.Int("orders", len(orders)))
	return res
}

func (r *Runner) finish(res *Result, produced int) {
	res.Entries = res.Diagnostics.Entries()
	r.Metrics.Batch(res.Pipeline, res.Seen, produced, res.skipCounts(), res.started)
	r.Metrics.Observe(res.Entries)
	r.logDiagnostics(res)
}

// =============================================================================
// MONDAY
// =============================================================================

// Monday assembles the board rows of every included order, in input order.
func (r *Runner) Monday(ctx context.Context, orders []woc.Order) (*Result, error) {
	res := r.begin(PipelineMonday, orders)
	for i := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o := &orders[i]
		if reason := r.MondayFilter.Check(o); reason != woc.SkipNone {
			res.Skipped = append(res.Skipped, Skip{Index: i, Item: extract.ItemName(o), Reason: reason})
			continue
		}
		a, err := r.Assembler.Assemble(o, res.Diagnostics)
		if err != nil {
			r.Logger.Error("Batch aborted", zap.String("run_id", res.RunID), zap.Int("index", i), zap.Error(err))
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		res.Rows = append(res.Rows, a)
	}
	r.finish(res, len(res.Rows))
	return res, nil
}

// SaveMonday writes the combined and split imports and records their paths.
func (r *Runner) SaveMonday(res *Result, files monday.Files) error {
	if err := monday.SaveImports(files, res.MondayRows()); err != nil {
		return err
	}
	res.Files = append(res.Files, files.Combined, files.Business, files.Consumer)
	r.Logger.Info("Monday imports written",
		zap.String("run_id", res.RunID),
		zap.Int("rows", len(res.Rows)),
		zap.Strings("files", []string{files.Combined, files.Business, files.Consumer}))
	return nil
}

// WriteMonday streams one import to w: the combined rows, or only one
// segment's when seg is set.
func WriteMonday(w io.Writer, res *Result, seg string) error {
	rows := res.MondayRows()
	business, consumer := monday.Split(rows)
	switch seg {
	case "":
	case "business":
		rows = business
	case "consumer":
		rows = consumer
	default:
		return fmt.Errorf("unknown segment %q", seg)
	}
	return monday.WriteWorkbook(w, rows)
}

// =============================================================================
// WORK ORDERS
// =============================================================================

// WorkOrders builds the sheet of every included order. Sheets that would
// share a file name get a " (n)" suffix.
func (r *Runner) WorkOrders(ctx context.Context, orders []woc.Order) (*Result, error) {
	res := r.begin(PipelineWorkOrders, orders)
	taken := make(map[string]int)
	for i := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o := &orders[i]
		if reason := r.WorkOrderFilter.Check(o); reason != woc.SkipNone {
			res.Skipped = append(res.Skipped, Skip{Index: i, Item: extract.ItemName(o), Reason: reason})
			continue
		}
		sheet := r.Builder.Sheet(o, res.Diagnostics)
		sheet.Location = dedupe(sheet.Location, taken)
		res.Sheets = append(res.Sheets, sheet)
	}
	r.finish(res, len(res.Sheets))
	return res, nil
}

// SaveWorkOrders resets root, renders every sheet below it and, when
// zipPath is set, archives the tree.
func (r *Runner) SaveWorkOrders(ctx context.Context, res *Result, root, zipPath string) error {
	if err := workorder.ResetDir(root); err != nil {
		return err
	}
	for _, s := range res.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := s.Location.Path(root)
		if err := r.Renderer.RenderFile(path, s.Document); err != nil {
			return err
		}
		res.Files = append(res.Files, path)
	}
	if zipPath != "" {
		if err := workorder.ZipFile(zipPath, root); err != nil {
			return err
		}
		res.Files = append(res.Files, zipPath)
	}
	r.Logger.Info("Work-order sheets written",
		zap.String("run_id", res.RunID),
		zap.Int("sheets", len(res.Sheets)),
		zap.String("root", root),
		zap.String("zip", zipPath))
	return nil
}

// WriteWorkOrdersZip streams the sheets as a zip archive to w.
func (r *Runner) WriteWorkOrdersZip(w io.Writer, res *Result) error {
	return workorder.ZipSheets(w, r.Renderer, res.Sheets)
}

func dedupe(loc workorder.Location, taken map[string]int) workorder.Location {
	key := strings.ToLower(loc.Rel())
	taken[key]++
	if n := taken[key]; n > 1 {
		loc.FileName = strings.TrimSuffix(loc.FileName, ".pdf") + fmt.Sprintf(" (%d).pdf", n)
		taken[strings.ToLower(loc.Rel())]++
	}
	return loc
}
