package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Color is one entry of the fixed event palette.
type Color int

const (
	ColorRed Color = iota
	ColorOrange
	ColorYellow
	ColorGreen
	ColorTeal
	ColorBlue
	ColorPurple
)

// PaletteSize is the number of colors events may take.
const PaletteSize = 7

var colorNames = [PaletteSize]string{
	"red", "orange", "yellow", "green", "teal", "blue", "purple",
}

func (c Color) String() string {
	if c < 0 || int(c) >= PaletteSize {
		return "unknown"
	}
	return colorNames[c]
}

// ParseColor maps a palette color name to its Color value.
func ParseColor(name string) (Color, error) {
	for i, n := range colorNames {
		if strings.EqualFold(name, n) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color: %s", name)
}

// Event is a titled, colored item spanning one or more contiguous
// calendar days. Start and End are inclusive local-midnight days;
// single-day events have End == Start. TimeOfDay is display-only and
// never affects indexing.
type Event struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	TimeOfDay string
	Color     Color
	Feed      string // source feed ID for imported events, empty for user events
}

// Days returns the number of calendar days the event spans. Counted by
// date arithmetic rather than elapsed hours so DST transitions inside
// the range cannot skew the result.
func (e Event) Days() int {
	n := 1
	for d := e.Start; d.Before(e.End) && !SameDay(d, e.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Covers reports whether day falls within the event's inclusive range.
func (e Event) Covers(day time.Time) bool {
	d := Midnight(day)
	return !d.Before(e.Start) && !d.After(e.End)
}
