package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/calendar"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

const actionAcceptWorkOrder = "AcceptWorkOrder"

var errMissing = errors.New("missing")

// Timestamp layouts seen in WOC exports. Fractional seconds are accepted
// by time.Parse after the seconds field even when the layout omits them.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	calendar.DateLayout,
}

// ParseTimestamp tries every known layout.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a timestamp with layout. Empty input gives "",
// unparsable input is passed through unchanged.
func FormatDate(s, layout string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format(layout)
}

// ISODate is FormatDate with "YYYY-MM-DD".
func ISODate(s string) string { return FormatDate(s, calendar.DateLayout) }

// IssuedDate is the order's primary date. Without it no booking deadline
// can be computed, so a missing or unparsable value is a setup error.
func IssuedDate(o *woc.Order, item string) (calendar.TimePoint, error) {
	if o.IssuedDate.Trim() == "" {
		return calendar.TimePoint{}, woc.Setup("read issuedDate", item, errMissing)
	}
	tp, err := calendar.ParseDate(o.IssuedDate.String())
	if err != nil {
		return calendar.TimePoint{}, woc.Setup("read issuedDate", item, err)
	}
	return tp, nil
}

// LatestAcceptedDate is the newest AcceptWorkOrder timestamp in the
// activity log, as a date. Timestamps are compared as times, not strings.
func LatestAcceptedDate(o *woc.Order, item string, diags *woc.Diagnostics) (string, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, e := range o.ActivityLog {
		if e.Action.String() != actionAcceptWorkOrder || e.Changed.IsEmpty() {
			continue
		}
		t, ok := ParseTimestamp(e.Changed.String())
		if !ok {
			diags.Warnf(woc.KindMissingData, item, "Ordredato", "unparsable activity timestamp %q", e.Changed)
			continue
		}
		if !found || t.After(latest) {
			latest, found = t, true
		}
	}
	if !found {
		return "", false
	}
	return latest.Format(calendar.DateLayout), true
}

// OrderDate is LatestAcceptedDate, falling back to the issued date.
func OrderDate(o *woc.Order, issued calendar.TimePoint, item string, diags *woc.Diagnostics) string {
	if d, ok := LatestAcceptedDate(o, item, diags); ok {
		return d
	}
	diags.Infof(woc.KindMissingData, item, "Ordredato", "no AcceptWorkOrder entry, using issued date")
	return issued.String()
}

// BookingDeadline is the issued date advanced by the booking window.
func BookingDeadline(cal calendar.HolidayCalendar, issued calendar.TimePoint, workingDays int) string {
	return calendar.WorkingDaysAfter(cal, issued, workingDays).String()
}
