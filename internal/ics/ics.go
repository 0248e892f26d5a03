// Package ics imports campus feed files (course timetables, club
// calendars) into calendar events and exports the event store back to
// ICS.
package ics

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"campuscal/internal/calendar"
)

// FeedID identifies a feed by its file name; events imported from the
// feed carry it so a re-import can replace exactly that feed's events.
func FeedID(path string) string {
	return filepath.Base(path)
}

// ImportFile parses the ICS file at path into events tagged with the
// file's feed ID.
func ImportFile(path string) ([]calendar.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feed %s: %w", path, err)
	}
	defer f.Close()

	return Import(f, FeedID(path))
}

// Import parses an ICS payload. VEVENTs without a summary or start are
// skipped rather than failing the whole feed. All-day DTEND values are
// exclusive per RFC 5545 and are folded back to the inclusive end day
// the calendar model uses.
func Import(r io.Reader, feed string) ([]calendar.Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feed, err)
	}

	var events []calendar.Event
	for _, ve := range cal.Events() {
		ev, ok := convertVEvent(ve, feed)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func convertVEvent(ve *ical.VEvent, feed string) (calendar.Event, bool) {
	var summary, uid string
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		summary = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		uid = p.Value
	}
	if summary == "" || uid == "" {
		return calendar.Event{}, false
	}

	allDay := isAllDay(ve)

	var startDay, endDay time.Time
	timeOfDay := ""

	if allDay {
		// Bare DATE values carry no zone; parse them as local days so
		// the day never shifts across a UTC conversion.
		var err error
		startDay, err = parseDateValue(ve.GetProperty(ical.ComponentPropertyDtStart))
		if err != nil {
			return calendar.Event{}, false
		}
		endDay, err = parseDateValue(ve.GetProperty(ical.ComponentPropertyDtEnd))
		if err != nil {
			endDay = startDay
		} else {
			// Exclusive DTEND -> inclusive end day.
			endDay = endDay.AddDate(0, 0, -1)
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return calendar.Event{}, false
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}
		startDay = calendar.Midnight(start.In(time.Local))
		endDay = calendar.Midnight(end.In(time.Local))
		timeOfDay = start.In(time.Local).Format("15:04")
	}

	if endDay.Before(startDay) {
		endDay = startDay
	}

	return calendar.Event{
		ID:        fmt.Sprintf("%s/%s", feed, uid),
		Title:     summary,
		Start:     startDay,
		End:       endDay,
		TimeOfDay: timeOfDay,
		Color:     feedColor(uid),
		Feed:      feed,
	}, true
}

// parseDateValue parses a DATE-valued property (YYYYMMDD) as a local
// midnight day.
func parseDateValue(p *ical.IANAProperty) (time.Time, error) {
	if p == nil {
		return time.Time{}, fmt.Errorf("missing date property")
	}
	return time.ParseInLocation("20060102", p.Value, time.Local)
}

// isAllDay checks the DTSTART value format: VALUE=DATE or a bare
// YYYYMMDD value means an all-day event.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

// feedColor assigns a stable palette color per UID so a feed keeps its
// colors across imports.
func feedColor(uid string) calendar.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return calendar.Color(h.Sum32() % calendar.PaletteSize)
}

// Export writes events as an ICS calendar. Day-ranged events become
// all-day VEVENTs with the exclusive DTEND convention; an event with a
// display time keeps it in DTSTART.
func Export(w io.Writer, events []calendar.Event) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//campuscal//EN")

	now := time.Now()
	for _, ev := range events {
		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Title)

		if ev.TimeOfDay != "" {
			if t, err := time.ParseInLocation("15:04", ev.TimeOfDay, time.Local); err == nil {
				at := time.Date(ev.Start.Year(), ev.Start.Month(), ev.Start.Day(),
					t.Hour(), t.Minute(), 0, 0, time.Local)
				ve.SetStartAt(at)
				ve.SetEndAt(at)
				continue
			}
		}

		ve.SetAllDayStartAt(ev.Start)
		ve.SetAllDayEndAt(ev.End.AddDate(0, 0, 1))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// ExportFile writes events to an ICS file at path.
func ExportFile(path string, events []calendar.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Export(f, events); err != nil {
		return err
	}
	return f.Sync()
}
