package calendar

// holidaySet accumulates holiday keys for every year the walk touches.
type holidaySet struct {
	cal   HolidayCalendar
	years map[int]bool
	days  map[string]bool
}

func newHolidaySet(cal HolidayCalendar) *holidaySet {
	return &holidaySet{cal: cal, years: make(map[int]bool), days: make(map[string]bool)}
}

func (s *holidaySet) addYear(year int) {
	if s.years[year] {
		return
	}
	s.years[year] = true
	for _, h := range s.cal.Holidays(year) {
		s.days[h.Date.key()] = true
	}
}

// IsWorkday reports whether a day is Monday-Friday and not a holiday.
func IsWorkday(cal HolidayCalendar, tp TimePoint) bool {
	if tp.IsWeekend() {
		return false
	}
	return cal == nil || !cal.IsHoliday(tp)
}

// WorkingDaysAfter advances start one calendar day at a time and returns
// the day on which the n-th working day is reached. n <= 0 returns start.
// Each new year the walk enters has its holidays added before that year's
// first day is counted.
func WorkingDaysAfter(cal HolidayCalendar, start TimePoint, n int) TimePoint {
	if cal == nil {
		cal = Norwegian{}
	}
	holidays := newHolidaySet(cal)
	holidays.addYear(start.Year())

	current := start
	for counted := 0; counted < n; {
		current = current.AddDays(1)
		holidays.addYear(current.Year())
		if !current.IsWeekend() && !holidays.days[current.key()] {
			counted++
		}
	}
	return current
}

// AddWorkingDays is WorkingDaysAfter over ISO strings. The input may carry
// a time-of-day suffix; the output is date-only.
func AddWorkingDays(cal HolidayCalendar, startISO string, n int) (string, error) {
	start, err := ParseDate(startISO)
	if err != nil {
		return "", err
	}
	return WorkingDaysAfter(cal, start, n).String(), nil
}
