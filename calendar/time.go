/*
Package calendar provides date-only arithmetic over the Norwegian working
week.

PURPOSE:
  Work orders must be booked within a number of working days of being
  issued. Working days exclude weekends and the Norwegian public holidays,
  several of which move with Easter.

KEY CONCEPTS:
  - TimePoint: a calendar day (UTC midnight, no time of day)
  - HolidayCalendar: answers "is this day a public holiday?"
  - Norwegian: the fixed + Easter-relative holiday set
  - WorkingDaysAfter: advance a day by N working days

SEE ALSO:
  - holidays.go: Easter computation and the holiday set
  - workdays.go: Working-day arithmetic
*/
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used on input and output.
const DateLayout = "2006-01-02"

// =============================================================================
// TIME POINT - A calendar day
// =============================================================================

type TimePoint struct {
	Time time.Time
}

func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads "YYYY-MM-DD", ignoring any "T..." time-of-day suffix.
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return TimePoint{Time: t}, nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool  { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool  { return tp.Time.After(other.Time) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// key identifies the day independent of how the TimePoint was built.
func (tp TimePoint) key() string { return tp.String() }

func (tp TimePoint) String() string { return tp.Time.Format(DateLayout) }
