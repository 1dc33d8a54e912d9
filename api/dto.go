/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures of the HTTP front-end. Requests are WOC exports
  (a JSON array of orders) and need no type of their own; responses wrap the
  pipeline results.

NAMING CONVENTION:
  - *DTO: Items of a response
  - *Response: Response bodies

TYPES:
  Classify:
    ClassifyResponse, RowDTO, SkipDTO

  Health:
    HealthResponse

  Errors:
    ErrorResponse

SEE ALSO:
  - handlers.go: Uses these types
  - pipeline/summary.go: Summary embedded in ClassifyResponse
*/
package api

import (
	"time"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/classify"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/monday"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/pipeline"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// =============================================================================
// CLASSIFY
// =============================================================================

// RowDTO is one board row with the classification behind it.
type RowDTO struct {
	Row            monday.Row      `json:"row"`
	Classification classify.Result `json:"classification"`
}

// SkipDTO is one order the inclusion filter left out.
type SkipDTO struct {
	Index  int    `json:"index"`
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// ClassifyResponse is returned by POST /api/classify.
type ClassifyResponse struct {
	RunID       string           `json:"runId"`
	Rows        []RowDTO         `json:"rows"`
	Skipped     []SkipDTO        `json:"skipped"`
	Diagnostics []woc.Diagnostic `json:"diagnostics"`
	Summary     pipeline.Summary `json:"summary"`
}

func toClassifyResponse(res *pipeline.Result) ClassifyResponse {
	resp := ClassifyResponse{
		RunID:       res.RunID,
		Rows:        make([]RowDTO, len(res.Rows)),
		Skipped:     make([]SkipDTO, len(res.Skipped)),
		Diagnostics: res.Entries,
		Summary:     res.Summary(),
	}
	for i, a := range res.Rows {
		resp.Rows[i] = RowDTO{Row: a.Row, Classification: a.Classification}
	}
	for i, s := range res.Skipped {
		resp.Skipped[i] = SkipDTO{Index: s.Index, Item: s.Item, Reason: string(s.Reason)}
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []woc.Diagnostic{}
	}
	return resp
}

// =============================================================================
// HEALTH
// =============================================================================

// HealthResponse reports the lookup tables the server is classifying with.
type HealthResponse struct {
	Status   string         `json:"status"`
	Source   string         `json:"source"`
	LoadedAt string         `json:"loadedAt"`
	Tables   map[string]int `json:"tables"`
}

func newHealthResponse(source string, loadedAt time.Time, counts map[string]int) HealthResponse {
	return HealthResponse{
		Status:   "ok",
		Source:   source,
		LoadedAt: loadedAt.Format(time.RFC3339),
		Tables:   counts,
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
