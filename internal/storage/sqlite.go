// Package storage provides SQLite persistence for the event store and
// pin set, the two external seams of the calendar widget.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"campuscal/internal/calendar"
)

const dayLayout = "2006-01-02"

// SQLite persists events and pins. Events keep their insertion order
// through a position column so a reloaded store lists them exactly as
// the user created them.
type SQLite struct {
	db *sql.DB
}

// New opens (or creates) the database at path and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			start_day   TEXT NOT NULL,
			end_day     TEXT NOT NULL,
			time_of_day TEXT NOT NULL DEFAULT '',
			color       INTEGER NOT NULL DEFAULT 0,
			feed        TEXT NOT NULL DEFAULT '',
			position    INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS pins (
			day TEXT PRIMARY KEY
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// SaveEvent appends an event at the next position.
func (s *SQLite) SaveEvent(ctx context.Context, ev calendar.Event) error {
	query := `
		INSERT INTO events (id, title, start_day, end_day, time_of_day, color, feed, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM events))
	`

	_, err := s.db.ExecContext(ctx, query,
		ev.ID,
		ev.Title,
		ev.Start.Format(dayLayout),
		ev.End.Format(dayLayout),
		ev.TimeOfDay,
		int(ev.Color),
		ev.Feed,
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// UpdateEvent rewrites an event's fields, keeping its position.
func (s *SQLite) UpdateEvent(ctx context.Context, ev calendar.Event) error {
	query := `
		UPDATE events
		SET title = ?, start_day = ?, end_day = ?, time_of_day = ?, color = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		ev.Title,
		ev.Start.Format(dayLayout),
		ev.End.Format(dayLayout),
		ev.TimeOfDay,
		int(ev.Color),
		ev.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("event %s not found", ev.ID)
	}
	return nil
}

// DeleteEvent removes an event by id. Deleting an absent id is not an
// error, matching the store's semantics.
func (s *SQLite) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// ReplaceFeed atomically swaps all events of one feed for a new batch.
// Used when a watched ICS file is re-imported.
func (s *SQLite) ReplaceFeed(ctx context.Context, feed string, events []calendar.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE feed = ?`, feed); err != nil {
		return fmt.Errorf("clearing feed %s: %w", feed, err)
	}

	query := `
		INSERT INTO events (id, title, start_day, end_day, time_of_day, color, feed, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM events))
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		_, err := stmt.ExecContext(ctx,
			ev.ID,
			ev.Title,
			ev.Start.Format(dayLayout),
			ev.End.Format(dayLayout),
			ev.TimeOfDay,
			int(ev.Color),
			feed,
		)
		if err != nil {
			return fmt.Errorf("inserting event %q: %w", ev.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadEvents returns all events in insertion order.
func (s *SQLite) LoadEvents(ctx context.Context) ([]calendar.Event, error) {
	query := `
		SELECT id, title, start_day, end_day, time_of_day, color, feed
		FROM events
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []calendar.Event
	for rows.Next() {
		var (
			ev       calendar.Event
			startDay string
			endDay   string
			color    int
		)

		if err := rows.Scan(&ev.ID, &ev.Title, &startDay, &endDay, &ev.TimeOfDay, &color, &ev.Feed); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		ev.Start, err = parseDay(startDay)
		if err != nil {
			return nil, fmt.Errorf("parsing start day: %w", err)
		}
		ev.End, err = parseDay(endDay)
		if err != nil {
			return nil, fmt.Errorf("parsing end day: %w", err)
		}
		ev.Color = calendar.Color(color)

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// SetPin records or clears a pinned day.
func (s *SQLite) SetPin(ctx context.Context, key calendar.DayKey, pinned bool) error {
	var err error
	if pinned {
		_, err = s.db.ExecContext(ctx, `INSERT OR IGNORE INTO pins (day) VALUES (?)`, string(key))
	} else {
		_, err = s.db.ExecContext(ctx, `DELETE FROM pins WHERE day = ?`, string(key))
	}
	if err != nil {
		return fmt.Errorf("setting pin %s: %w", key, err)
	}
	return nil
}

// LoadPins returns all pinned day keys.
func (s *SQLite) LoadPins(ctx context.Context) ([]calendar.DayKey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day FROM pins ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("querying pins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []calendar.DayKey
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scanning pin: %w", err)
		}
		keys = append(keys, calendar.DayKey(day))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pins: %w", err)
	}
	return keys, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// parseDay parses a stored day column in local time so dates compare
// cleanly with time.Now() based days.
func parseDay(v string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, v, time.Local)
}
