package woc

import (
	"fmt"
	"sort"
)

// =============================================================================
// DIAGNOSTICS - Append-only side channel of per-order findings
// =============================================================================

type Level string

const (
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
)

// Kind groups diagnostics for the end-of-batch summary.
type Kind string

const (
	KindMissingData Kind = "missing_data"
	KindLookupMiss  Kind = "lookup_miss"
	KindUnresolved  Kind = "unresolved"
	KindNeedsReview Kind = "needs_review"
)

// Diagnostic is one finding about one order. Item is the order's item
// name, the identifier operators search for on the board.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Kind    Kind   `json:"kind"`
	Item    string `json:"item"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Field == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Level, d.Item, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s: %s", d.Level, d.Item, d.Field, d.Message)
}

// Diagnostics collects findings in the order they were raised. A nil
// *Diagnostics discards everything, which keeps pure callers simple.
type Diagnostics struct {
	entries []Diagnostic
}

func NewDiagnostics() *Diagnostics { return &Diagnostics{} }

func (d *Diagnostics) Add(entry Diagnostic) {
	if d == nil {
		return
	}
	d.entries = append(d.entries, entry)
}

func (d *Diagnostics) Infof(kind Kind, item, field, format string, args ...any) {
	d.Add(Diagnostic{Level: LevelInfo, Kind: kind, Item: item, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) Warnf(kind Kind, item, field, format string, args ...any) {
	d.Add(Diagnostic{Level: LevelWarn, Kind: kind, Item: item, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Record turns a contained error into a diagnostic.
func (d *Diagnostics) Record(item, field string, err error) {
	if err == nil {
		return
	}
	kind := KindMissingData
	switch {
	case IsNotFound(err):
		kind = KindLookupMiss
	case IsUnresolved(err):
		kind = KindUnresolved
	}
	d.Warnf(kind, item, field, "%v", err)
}

// Entries returns a copy of everything recorded so far.
func (d *Diagnostics) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Merge appends another sink's entries.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if d == nil || other == nil {
		return
	}
	d.entries = append(d.entries, other.entries...)
}

// OfKind filters entries by kind, keeping order.
func (d *Diagnostics) OfKind(kinds ...Kind) []Diagnostic {
	var out []Diagnostic
	for _, e := range d.Entries() {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// FlaggedItems returns the distinct items that need operator attention:
// needs-review segment or any unresolved classification field. Sorted.
func (d *Diagnostics) FlaggedItems() []string {
	seen := make(map[string]bool)
	for _, e := range d.OfKind(KindNeedsReview, KindUnresolved) {
		seen[e.Item] = true
	}
	items := make([]string, 0, len(seen))
	for item := range seen {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
