package calendar

import (
	"time"
)

// DayKey identifies a calendar day as a canonical YYYY-MM-DD string.
// Two days are the same day iff their keys are equal. Days are naive
// calendar dates; no timezone offset is modeled.
type DayKey string

const dayKeyLayout = "2006-01-02"

// KeyOf returns the day key for the calendar day containing t.
func KeyOf(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

// ParseKey parses a day key back into a local-midnight time.
func ParseKey(k DayKey) (time.Time, error) {
	return time.ParseInLocation(dayKeyLayout, string(k), time.Local)
}

// Midnight truncates t to local midnight, dropping any time-of-day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
