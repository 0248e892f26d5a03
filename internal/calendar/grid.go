package calendar

import (
	"time"
)

// VisibleDays returns the month grid for the month containing anchor:
// every day from the first weekStart on or before the 1st of the month
// through the end of the week containing the last day of the month.
// Only the anchor's year and month are significant. The result is a
// contiguous ascending run of local-midnight days whose length is
// always a multiple of 7.
func VisibleDays(anchor time.Time, weekStart time.Weekday) []time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)

	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	day := first.AddDate(0, 0, -offset)

	var days []time.Time
	for {
		days = append(days, day)
		if !day.Before(last) && len(days)%7 == 0 {
			return days
		}
		day = day.AddDate(0, 0, 1)
	}
}

// MonthAnchor normalizes t to the first day of its month.
func MonthAnchor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
}
