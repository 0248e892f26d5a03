package calendar

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyTitle rejects events whose title is empty after trimming.
	ErrEmptyTitle = errors.New("event title is empty")
	// ErrInvertedRange rejects events whose end day precedes their start day.
	ErrInvertedRange = errors.New("event end precedes start")
	// ErrNotFound reports an id with no matching event.
	ErrNotFound = errors.New("event not found")
)

// Store is an ordered, in-memory collection of events. Ordering is
// append-only: events are never sorted by date. The derived day index
// is cached and invalidated by a version counter bumped on every
// mutation, so reads between mutations reuse one build.
//
// A Store is owned by a single UI instance and is not safe for
// concurrent use.
type Store struct {
	events  []Event
	version uint64

	indexVersion uint64
	index        map[DayKey][]Event
}

func NewStore() *Store {
	return &Store{}
}

// Add validates and appends a new event, returning it with a freshly
// generated id. The store is left unchanged on validation failure.
func (s *Store) Add(title string, start, end time.Time, timeOfDay string, color Color) (Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Event{}, ErrEmptyTitle
	}

	start = Midnight(start)
	end = Midnight(end)
	if end.Before(start) {
		return Event{}, ErrInvertedRange
	}

	ev := Event{
		ID:        uuid.NewString(),
		Title:     title,
		Start:     start,
		End:       end,
		TimeOfDay: strings.TrimSpace(timeOfDay),
		Color:     color,
	}
	s.events = append(s.events, ev)
	s.version++
	return ev, nil
}

// Put appends an already-formed event, preserving its id. Used when
// loading persisted events or importing feeds; the same validation as
// Add applies.
func (s *Store) Put(ev Event) error {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return ErrEmptyTitle
	}
	ev.Start = Midnight(ev.Start)
	ev.End = Midnight(ev.End)
	if ev.End.Before(ev.Start) {
		return ErrInvertedRange
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	s.events = append(s.events, ev)
	s.version++
	return nil
}

// Remove deletes the event with the given id. Removing an absent id is
// a no-op, not an error; the returned bool reports whether anything
// was deleted.
func (s *Store) Remove(id string) bool {
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			s.version++
			return true
		}
	}
	return false
}

// EventUpdate carries the fields Update may change; nil fields keep
// the current value.
type EventUpdate struct {
	Title     *string
	Start     *time.Time
	End       *time.Time
	TimeOfDay *string
	Color     *Color
}

// Update edits an event in place, keeping its id and position. The
// merged result is validated with the same rules as Add before being
// applied, so a bad update leaves the event untouched.
func (s *Store) Update(id string, upd EventUpdate) (Event, error) {
	for i, ev := range s.events {
		if ev.ID != id {
			continue
		}

		next := ev
		if upd.Title != nil {
			next.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Start != nil {
			next.Start = Midnight(*upd.Start)
		}
		if upd.End != nil {
			next.End = Midnight(*upd.End)
		}
		if upd.TimeOfDay != nil {
			next.TimeOfDay = strings.TrimSpace(*upd.TimeOfDay)
		}
		if upd.Color != nil {
			next.Color = *upd.Color
		}

		if next.Title == "" {
			return Event{}, ErrEmptyTitle
		}
		if next.End.Before(next.Start) {
			return Event{}, ErrInvertedRange
		}

		s.events[i] = next
		s.version++
		return next, nil
	}
	return Event{}, ErrNotFound
}

// RemoveFeed deletes every event imported from the given feed,
// returning how many were dropped. Used when a watched feed changes
// and is re-imported.
func (s *Store) RemoveFeed(feed string) int {
	kept := s.events[:0]
	removed := 0
	for _, ev := range s.events {
		if ev.Feed == feed {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	if removed > 0 {
		s.version++
	}
	return removed
}

// Events returns an ordered snapshot of the collection.
func (s *Store) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) Len() int {
	return len(s.events)
}

// Get returns the event with the given id.
func (s *Store) Get(id string) (Event, bool) {
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

// Version increments on every mutation. Callers may use it to detect
// staleness of anything they derived from Events.
func (s *Store) Version() uint64 {
	return s.version
}

// Index returns the day index for the current contents, rebuilding it
// only when the store has changed since the last call.
func (s *Store) Index() map[DayKey][]Event {
	if s.index == nil || s.indexVersion != s.version {
		s.index = BuildIndex(s.events)
		s.indexVersion = s.version
	}
	return s.index
}

// EventsOn returns the index bucket for the day containing t, in store
// order. The slice is shared with the cached index; callers must not
// modify it.
func (s *Store) EventsOn(t time.Time) []Event {
	return s.Index()[KeyOf(t)]
}
