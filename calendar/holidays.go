package calendar

import (
	"sort"
	"time"
)

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is one public holiday.
type Holiday struct {
	Date TimePoint
	Name string
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// IsHoliday checks if a date is a public holiday.
	IsHoliday(date TimePoint) bool

	// Holidays returns all holidays in a year, in date order.
	Holidays(year int) []Holiday
}

// Norwegian is the Norwegian public-holiday calendar ("røde dager").
// It is stateless and safe for concurrent use.
type Norwegian struct{}

func (Norwegian) Holidays(year int) []Holiday {
	easter := Easter(year)
	days := []Holiday{
		{NewTimePoint(year, time.January, 1), "Nyttårsdag"},
		{NewTimePoint(year, time.May, 1), "Arbeidernes dag"},
		{NewTimePoint(year, time.May, 17), "Grunnlovsdagen"},
		{NewTimePoint(year, time.December, 25), "Første juledag"},
		{NewTimePoint(year, time.December, 26), "Andre juledag"},
		{easter.AddDays(-3), "Skjærtorsdag"},
		{easter.AddDays(-2), "Langfredag"},
		{easter.AddDays(1), "Andre påskedag"},
		{easter.AddDays(39), "Kristi himmelfartsdag"},
		{easter.AddDays(49), "Første pinsedag"},
		{easter.AddDays(50), "Andre pinsedag"},
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

func (n Norwegian) IsHoliday(date TimePoint) bool {
	for _, h := range n.Holidays(date.Year()) {
		if h.Date.Equal(date) {
			return true
		}
	}
	return false
}

// Easter returns Easter Sunday for a Gregorian year using the
// Meeus/Jones/Butcher algorithm. Integer arithmetic only.
func Easter(year int) TimePoint {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewTimePoint(year, time.Month(month), day)
}
