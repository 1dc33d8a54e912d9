/*
handlers.go - HTTP API handlers for the WOC conversions

PURPOSE:
  Exposes both pipelines over HTTP in place of the upload page. Every POST
  takes a WOC export as body: a JSON array of orders, either raw
  (Content-Type: application/json) or as the "file" field of a multipart
  upload.

ENDPOINTS:
  GET    /api/health          Lookup table source and row counts
  POST   /api/classify        Board rows, classifications and diagnostics as JSON
  POST   /api/monday          Monday import workbook (?segment=business|consumer)
  POST   /api/workorders      Zip of the work-order PDFs
  GET    /metrics             Prometheus metrics

ARCHITECTURE:
  Handler holds the current pipeline.Runner behind a RWMutex. The table
  reloader swaps in a new runner when fresh lookup tables are imported;
  requests in flight keep the runner they started with.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Body is not a WOC export, unknown segment
  - 413: Body over server.max_upload_mb
  - 422: An included order cannot be converted (no usable issued date)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response data structures
  - reloader.go: Lookup table hot reload
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/monday"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/pipeline"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Logger    *zap.Logger
	MaxUpload int64
	Source    string

	// NewRunner builds the pipeline over a set of tables.
	NewRunner func(*lookup.Tables) *pipeline.Runner

	mu       sync.RWMutex
	runner   *pipeline.Runner
	tables   *lookup.Tables
	loadedAt time.Time
}

// NewHandler creates a handler serving tables loaded from source.
func NewHandler(tables *lookup.Tables, source string, newRunner func(*lookup.Tables) *pipeline.Runner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		Logger:    logger,
		MaxUpload: 32 << 20,
		Source:    source,
		NewRunner: newRunner,
	}
	h.SetTables(tables, time.Now())
	return h
}

// SetTables swaps the lookup tables and the runner built over them.
func (h *Handler) SetTables(tables *lookup.Tables, loadedAt time.Time) {
	runner := h.NewRunner(tables)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runner, h.tables, h.loadedAt = runner, tables, loadedAt
}

func (h *Handler) current() (*pipeline.Runner, *lookup.Tables, time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.runner, h.tables, h.loadedAt
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports the lookup tables in use.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, tables, loadedAt := h.current()
	writeJSON(w, http.StatusOK, newHealthResponse(h.Source, loadedAt, tables.Counts()))
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// Classify runs the Monday pipeline and returns rows and diagnostics.
// POST /api/classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	res, ok := h.runMonday(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toClassifyResponse(res))
}

// Monday returns the Monday import workbook: combined, or one segment.
// POST /api/monday?segment=business|consumer
func (h *Handler) Monday(w http.ResponseWriter, r *http.Request) {
	seg := strings.ToLower(r.URL.Query().Get("segment"))
	filename, ok := mondayFilenames[seg]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown segment", fmt.Errorf("segment %q: want business or consumer", seg))
		return
	}
	res, ok := h.runMonday(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := pipeline.WriteMonday(&buf, res, seg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write workbook", err)
		return
	}
	writeFile(w, res.RunID, xlsxContentType, filename, buf.Bytes())
}

// WorkOrders returns the work-order sheets as a zip of PDFs.
// POST /api/workorders
func (h *Handler) WorkOrders(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.readOrders(w, r)
	if !ok {
		return
	}
	runner, _, _ := h.current()
	res, err := runner.WorkOrders(r.Context(), orders)
	if err != nil {
		writeBatchError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := runner.WriteWorkOrdersZip(&buf, res); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render work orders", err)
		return
	}
	writeFile(w, res.RunID, "application/zip", "generated_pdfs.zip", buf.Bytes())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var mondayFilenames = map[string]string{
	"":         monday.CombinedFile,
	"business": monday.BusinessFile,
	"consumer": monday.ConsumerFile,
}

func (h *Handler) runMonday(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	orders, ok := h.readOrders(w, r)
	if !ok {
		return nil, false
	}
	runner, _, _ := h.current()
	res, err := runner.Monday(r.Context(), orders)
	if err != nil {
		writeBatchError(w, err)
		return nil, false
	}
	return res, true
}

// readOrders decodes the uploaded export, writing the error response itself
// when it cannot.
func (h *Handler) readOrders(w http.ResponseWriter, r *http.Request) ([]woc.Order, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeUploadError(w, err)
			return nil, false
		}
		defer file.Close()
		body = file
	}

	orders, err := woc.ParseOrders(body)
	if err != nil {
		writeUploadError(w, err)
		return nil, false
	}
	return orders, true
}

// =============================================================================
// RESPONSES
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid WOC export", err)
}

func writeBatchError(w http.ResponseWriter, err error) {
	if woc.IsFatal(err) {
		writeError(w, http.StatusUnprocessableEntity, "Batch aborted", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Batch failed", err)
}

func writeFile(w http.ResponseWriter, runID, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Run-Id", runID)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
