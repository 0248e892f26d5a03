// Package parser turns the free-form date and time strings typed into
// the add-event dialog into calendar days and display times.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateParser struct {
	now      time.Time
	location *time.Location
}

func NewDateParser() *DateParser {
	return &DateParser{
		now:      time.Now(),
		location: time.Local,
	}
}

// SetNow fixes the reference date for relative forms, for tests.
func (p *DateParser) SetNow(now time.Time) {
	p.now = now
}

// ParseDay resolves a date expression to a local-midnight day. It
// accepts relative forms (today, tomorrow, next fri, in 2 weeks) and
// absolute forms (2026-03-10, 3/10/2026, 3/10, Mar 10 2026).
func (p *DateParser) ParseDay(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if date, ok := p.parseRelative(input); ok {
		return date, nil
	}
	if date, ok := p.parseAbsolute(input); ok {
		return date, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %s", input)
}

// ParseTimeOfDay normalizes a time expression (14:00, 2pm, 2:30pm,
// noon) to the display form HH:MM. An empty input stays empty: the
// event is untimed.
func (p *DateParser) ParseTimeOfDay(input string) (string, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return "", nil
	}

	namedTimes := map[string]int{
		"noon":     12,
		"midnight": 0,
	}
	if hour, ok := namedTimes[input]; ok {
		return fmt.Sprintf("%02d:00", hour), nil
	}

	timeRe := regexp.MustCompile(`^(\d{1,2}):?(\d{2})?\s*(am|pm)?$`)
	matches := timeRe.FindStringSubmatch(input)
	if matches == nil {
		return "", fmt.Errorf("unrecognized time: %s", input)
	}

	hour, _ := strconv.Atoi(matches[1])
	min := 0
	if matches[2] != "" {
		min, _ = strconv.Atoi(matches[2])
	}

	if matches[3] == "pm" && hour < 12 {
		hour += 12
	} else if matches[3] == "am" && hour == 12 {
		hour = 0
	}

	if hour > 23 || min > 59 {
		return "", fmt.Errorf("invalid time: %s", input)
	}
	return fmt.Sprintf("%02d:%02d", hour, min), nil
}

func (p *DateParser) parseRelative(input string) (time.Time, bool) {
	lower := strings.ToLower(input)

	switch lower {
	case "today":
		return p.today(), true
	case "tomorrow", "tmrw":
		return p.today().AddDate(0, 0, 1), true
	case "yesterday":
		return p.today().AddDate(0, 0, -1), true
	}

	// Next/this weekday
	weekdayRe := regexp.MustCompile(`^(next|this)\s+(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)$`)
	if matches := weekdayRe.FindStringSubmatch(lower); matches != nil {
		weekday := parseWeekday(matches[2])
		return p.findNextWeekday(weekday, matches[1] == "next"), true
	}

	// In N days/weeks/months
	inRe := regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months)$`)
	if matches := inRe.FindStringSubmatch(lower); matches != nil {
		n, _ := strconv.Atoi(matches[1])
		date := p.today()

		switch {
		case strings.HasPrefix(matches[2], "day"):
			date = date.AddDate(0, 0, n)
		case strings.HasPrefix(matches[2], "week"):
			date = date.AddDate(0, 0, n*7)
		case strings.HasPrefix(matches[2], "month"):
			date = date.AddDate(0, n, 0)
		}
		return date, true
	}

	return time.Time{}, false
}

func (p *DateParser) parseAbsolute(input string) (time.Time, bool) {
	// YYYY-MM-DD, the day-key form
	if date, err := time.ParseInLocation("2006-01-02", input, p.location); err == nil {
		return date, true
	}

	// MM/DD/YYYY or MM-DD-YYYY
	dateRe := regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	if matches := dateRe.FindStringSubmatch(input); matches != nil {
		month, _ := strconv.Atoi(matches[1])
		day, _ := strconv.Atoi(matches[2])
		year, _ := strconv.Atoi(matches[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.location), true
	}

	// MM/DD (assume current year)
	shortDateRe := regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})$`)
	if matches := shortDateRe.FindStringSubmatch(input); matches != nil {
		month, _ := strconv.Atoi(matches[1])
		day, _ := strconv.Atoi(matches[2])
		return time.Date(p.now.Year(), time.Month(month), day, 0, 0, 0, 0, p.location), true
	}

	// Month DD, YYYY or Month DD
	monthNameRe := regexp.MustCompile(`^(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)\s+(\d{1,2})(?:,?\s+(\d{4}))?$`)
	if matches := monthNameRe.FindStringSubmatch(strings.ToLower(input)); matches != nil {
		month := parseMonth(matches[1])
		day, _ := strconv.Atoi(matches[2])
		year := p.now.Year()
		if matches[3] != "" {
			year, _ = strconv.Atoi(matches[3])
		}
		return time.Date(year, month, day, 0, 0, 0, 0, p.location), true
	}

	return time.Time{}, false
}

func parseWeekday(s string) time.Weekday {
	switch strings.ToLower(s) {
	case "sun", "sunday":
		return time.Sunday
	case "mon", "monday":
		return time.Monday
	case "tue", "tuesday":
		return time.Tuesday
	case "wed", "wednesday":
		return time.Wednesday
	case "thu", "thursday":
		return time.Thursday
	case "fri", "friday":
		return time.Friday
	case "sat", "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}

func parseMonth(s string) time.Month {
	switch strings.ToLower(s) {
	case "jan", "january":
		return time.January
	case "feb", "february":
		return time.February
	case "mar", "march":
		return time.March
	case "apr", "april":
		return time.April
	case "may":
		return time.May
	case "jun", "june":
		return time.June
	case "jul", "july":
		return time.July
	case "aug", "august":
		return time.August
	case "sep", "september":
		return time.September
	case "oct", "october":
		return time.October
	case "nov", "november":
		return time.November
	case "dec", "december":
		return time.December
	default:
		return time.January
	}
}

func (p *DateParser) findNextWeekday(target time.Weekday, skipThisWeek bool) time.Time {
	date := p.today()
	daysUntilTarget := int(target - date.Weekday())

	if daysUntilTarget <= 0 || skipThisWeek {
		daysUntilTarget += 7
	}

	return date.AddDate(0, 0, daysUntilTarget)
}

func (p *DateParser) today() time.Time {
	y, m, d := p.now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.location)
}
