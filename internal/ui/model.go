package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"campuscal/internal/calendar"
	"campuscal/internal/config"
	"campuscal/internal/ics"
	"campuscal/internal/parser"
	"campuscal/internal/storage"
)

type ViewMode int

const (
	ViewMonth ViewMode = iota
	ViewDayDialog
	ViewAddEvent
	ViewHelp
)

// addForm holds the add/edit dialog's input state. Adds are prefilled
// with the day the dialog was opened on; edits carry the id of the
// event being changed and are prefilled from it. Multi-day forms
// expose the end-date field.
type addForm struct {
	editID   string
	title    string
	start    string
	end      string
	timeStr  string
	color    calendar.Color
	multiDay bool
	focus    int
	errText  string
}

func (f *addForm) fieldCount() int {
	if f.multiDay {
		return 4 // title, start, end, time
	}
	return 3 // title, start, time
}

type Model struct {
	// Core components
	cfg    *config.Config
	store  *calendar.Store
	pins   *calendar.PinSet
	repo   *storage.SQLite
	logger *zap.Logger
	parser *parser.DateParser

	// View state
	mode     ViewMode
	anchor   time.Time // first day of the displayed month
	selected time.Time

	// Preview pane state. Timers are sequence-numbered: bumping the
	// sequence cancels every timer scheduled before the bump.
	previewOpen bool
	previewKey  calendar.DayKey
	previewSeq  int

	// Day dialog state
	dialogKey     calendar.DayKey
	dialogIndex   int
	pendingDelete string

	// Add dialog state
	form addForm

	// UI state
	width   int
	height  int
	message string
	msgSeq  int

	styles Styles
}

// Message types
type previewShowMsg struct{ seq int }
type previewHideMsg struct{ seq int }
type statusClearMsg struct{ seq int }

// FeedChangedMsg is sent by the feed watcher when an ICS file changed
// on disk; the model re-imports it.
type FeedChangedMsg struct {
	Path string
}

func NewModel(cfg *config.Config, store *calendar.Store, pins *calendar.PinSet, repo *storage.SQLite, logger *zap.Logger) *Model {
	now := time.Now()

	return &Model{
		cfg:      cfg,
		store:    store,
		pins:     pins,
		repo:     repo,
		logger:   logger,
		parser:   parser.NewDateParser(),
		mode:     ViewMonth,
		anchor:   calendar.MonthAnchor(now),
		selected: calendar.Midnight(now),
		styles:   DefaultStyles(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.schedulePreview()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case previewShowMsg:
		if msg.seq == m.previewSeq && m.mode == ViewMonth {
			// The pane is now current again; a linger-hide scheduled
			// alongside this show is stale and must not fire.
			m.previewSeq++
			m.previewOpen = true
			m.previewKey = calendar.KeyOf(m.selected)
		}
		return m, nil

	case previewHideMsg:
		if msg.seq == m.previewSeq {
			m.previewOpen = false
		}
		return m, nil

	case statusClearMsg:
		if msg.seq == m.msgSeq {
			m.message = ""
		}
		return m, nil

	case FeedChangedMsg:
		return m, m.reloadFeed(msg.Path)
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ViewMonth:
		return m.viewMonth()
	case ViewDayDialog:
		return m.viewDayDialog()
	case ViewAddEvent:
		return m.viewAddEvent()
	case ViewHelp:
		return m.viewHelp()
	default:
		return m.viewMonth()
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys; the add dialog needs every rune for its inputs.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode != ViewAddEvent {
		switch msg.String() {
		case "q":
			if m.mode == ViewMonth {
				return m, tea.Quit
			}

		case "?":
			if m.mode == ViewHelp {
				m.mode = ViewMonth
			} else {
				m.mode = ViewHelp
			}
			return m, nil
		}
	}

	switch m.mode {
	case ViewMonth:
		return m.handleMonthKeys(msg)
	case ViewDayDialog:
		return m.handleDayDialogKeys(msg)
	case ViewAddEvent:
		return m.handleAddEventKeys(msg)
	case ViewHelp:
		m.mode = ViewMonth
		return m, nil
	}

	return m, nil
}

func (m *Model) handleMonthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "l", "right":
		return m, m.moveSelection(0, 0, 1)

	case "h", "left":
		return m, m.moveSelection(0, 0, -1)

	case "j", "down":
		return m, m.moveSelection(0, 0, 7)

	case "k", "up":
		return m, m.moveSelection(0, 0, -7)

	case ">", "J":
		m.anchor = m.anchor.AddDate(0, 1, 0)
		m.selected = m.anchor
		return m, m.schedulePreview()

	case "<", "K":
		m.anchor = m.anchor.AddDate(0, -1, 0)
		m.selected = m.anchor
		return m, m.schedulePreview()

	case "t":
		now := time.Now()
		m.anchor = calendar.MonthAnchor(now)
		m.selected = calendar.Midnight(now)
		return m, m.schedulePreview()

	case "p":
		key := calendar.KeyOf(m.selected)
		if m.pins.Toggle(key) {
			return m, m.showMessage(fmt.Sprintf("Pinned %s", key))
		}
		return m, m.showMessage(fmt.Sprintf("Unpinned %s", key))

	case "enter":
		m.openDayDialog(calendar.KeyOf(m.selected))
		return m, nil

	case "a":
		m.openDayDialog(calendar.KeyOf(m.selected))
		m.openAddDialog(false)
		return m, nil

	case "A":
		m.openDayDialog(calendar.KeyOf(m.selected))
		m.openAddDialog(true)
		return m, nil
	}

	return m, nil
}

// moveSelection shifts the selected day, re-anchoring the grid when
// the selection leaves the displayed month, and restarts the preview
// timers.
func (m *Model) moveSelection(years, months, days int) tea.Cmd {
	m.selected = m.selected.AddDate(years, months, days)
	if m.selected.Month() != m.anchor.Month() || m.selected.Year() != m.anchor.Year() {
		m.anchor = calendar.MonthAnchor(m.selected)
	}
	return m.schedulePreview()
}

// schedulePreview restarts the preview timers for the current
// selection: the pane opens after the hover-open delay, and any pane
// already showing lingers for the hover-close delay so rapid cursor
// movement does not flicker.
func (m *Model) schedulePreview() tea.Cmd {
	m.previewSeq++
	seq := m.previewSeq

	cmds := []tea.Cmd{
		tea.Tick(m.cfg.HoverOpenDelay, func(time.Time) tea.Msg {
			return previewShowMsg{seq: seq}
		}),
	}
	if m.previewOpen && m.previewKey != calendar.KeyOf(m.selected) {
		cmds = append(cmds, tea.Tick(m.cfg.HoverCloseDelay, func(time.Time) tea.Msg {
			return previewHideMsg{seq: seq}
		}))
	}
	return tea.Batch(cmds...)
}

// openDayDialog switches to the day dialog, dismissing any preview.
func (m *Model) openDayDialog(key calendar.DayKey) {
	m.mode = ViewDayDialog
	m.dialogKey = key
	m.dialogIndex = 0
	m.pendingDelete = ""
	m.previewSeq++
	m.previewOpen = false
}

func (m *Model) openAddDialog(multiDay bool) {
	m.mode = ViewAddEvent
	m.form = addForm{
		start:    string(m.dialogKey),
		end:      string(m.dialogKey),
		multiDay: multiDay,
	}
}

// openEditDialog opens the form prefilled from an existing event.
func (m *Model) openEditDialog(ev calendar.Event) {
	m.mode = ViewAddEvent
	m.form = addForm{
		editID:   ev.ID,
		title:    ev.Title,
		start:    string(calendar.KeyOf(ev.Start)),
		end:      string(calendar.KeyOf(ev.End)),
		timeStr:  ev.TimeOfDay,
		color:    ev.Color,
		multiDay: ev.Days() > 1,
	}
}

func (m *Model) dialogEvents() []calendar.Event {
	day, err := calendar.ParseKey(m.dialogKey)
	if err != nil {
		return nil
	}
	return m.store.EventsOn(day)
}

func (m *Model) handleDayDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	events := m.dialogEvents()

	switch msg.String() {
	case "j", "down":
		if m.dialogIndex < len(events)-1 {
			m.dialogIndex++
		}
		m.pendingDelete = ""

	case "k", "up":
		if m.dialogIndex > 0 {
			m.dialogIndex--
		}
		m.pendingDelete = ""

	case "a":
		m.openAddDialog(false)

	case "A":
		m.openAddDialog(true)

	case "e":
		if m.dialogIndex < len(events) {
			m.openEditDialog(events[m.dialogIndex])
		}

	case "p":
		key := m.dialogKey
		if m.pins.Toggle(key) {
			return m, m.showMessage(fmt.Sprintf("Pinned %s", key))
		}
		return m, m.showMessage(fmt.Sprintf("Unpinned %s", key))

	case "d":
		if m.dialogIndex >= len(events) {
			return m, nil
		}
		ev := events[m.dialogIndex]

		if m.cfg.ConfirmDelete && m.pendingDelete != ev.ID {
			m.pendingDelete = ev.ID
			return m, m.showMessage("Press d again to delete")
		}

		m.pendingDelete = ""
		m.store.Remove(ev.ID)
		if m.dialogIndex > 0 {
			m.dialogIndex--
		}
		m.persistDelete(ev)
		return m, m.showMessage(fmt.Sprintf("Deleted %q", ev.Title))

	case "esc", "q":
		m.mode = ViewMonth
	}

	return m, nil
}

func (m *Model) handleAddEventKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ViewDayDialog
		return m, nil

	case tea.KeyEnter:
		return m.saveForm()

	case tea.KeyTab:
		m.form.color = (m.form.color + 1) % calendar.PaletteSize
		return m, nil

	case tea.KeyDown:
		m.form.focus = (m.form.focus + 1) % m.form.fieldCount()
		return m, nil

	case tea.KeyUp:
		m.form.focus = (m.form.focus + m.form.fieldCount() - 1) % m.form.fieldCount()
		return m, nil

	case tea.KeyBackspace:
		field := m.focusedField()
		if len(*field) > 0 {
			*field = (*field)[:len(*field)-1]
		}
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		field := m.focusedField()
		if msg.Type == tea.KeySpace {
			*field += " "
			return m, nil
		}
		for _, r := range msg.Runes {
			*field += string(r)
		}
		return m, nil
	}

	return m, nil
}

// focusedField maps the form focus index to the field it edits.
func (m *Model) focusedField() *string {
	switch m.form.focus {
	case 0:
		return &m.form.title
	case 1:
		return &m.form.start
	case 2:
		if m.form.multiDay {
			return &m.form.end
		}
		return &m.form.timeStr
	default:
		return &m.form.timeStr
	}
}

// saveForm validates the form and applies it: a new event is appended,
// an edit updates in place keeping its id and position. Bad input
// keeps the dialog open with an error line; the store is never touched
// by a rejected save.
func (m *Model) saveForm() (tea.Model, tea.Cmd) {
	start, err := m.parser.ParseDay(m.form.start)
	if err != nil {
		m.form.errText = err.Error()
		return m, nil
	}

	end := start
	if m.form.multiDay {
		end, err = m.parser.ParseDay(m.form.end)
		if err != nil {
			m.form.errText = err.Error()
			return m, nil
		}
	}

	timeOfDay, err := m.parser.ParseTimeOfDay(m.form.timeStr)
	if err != nil {
		m.form.errText = err.Error()
		return m, nil
	}

	if m.form.editID != "" {
		ev, err := m.store.Update(m.form.editID, calendar.EventUpdate{
			Title:     &m.form.title,
			Start:     &start,
			End:       &end,
			TimeOfDay: &timeOfDay,
			Color:     &m.form.color,
		})
		if err != nil {
			m.form.errText = err.Error()
			return m, nil
		}

		m.persistUpdate(ev)
		m.mode = ViewDayDialog
		return m, m.showMessage(fmt.Sprintf("Updated %q", ev.Title))
	}

	ev, err := m.store.Add(m.form.title, start, end, timeOfDay, m.form.color)
	if err != nil {
		m.form.errText = err.Error()
		return m, nil
	}

	m.persistAdd(ev)
	m.mode = ViewDayDialog
	return m, m.showMessage(fmt.Sprintf("Added %q", ev.Title))
}

// reloadFeed re-imports a changed ICS file, swapping out the feed's
// previous events.
func (m *Model) reloadFeed(path string) tea.Cmd {
	feed := ics.FeedID(path)

	events, err := ics.ImportFile(path)
	if err != nil {
		m.logger.Warn("feed reload failed", zap.String("path", path), zap.Error(err))
		return m.showMessage(fmt.Sprintf("Failed to reload %s", feed))
	}

	m.store.RemoveFeed(feed)
	for _, ev := range events {
		if err := m.store.Put(ev); err != nil {
			m.logger.Warn("skipping feed event", zap.String("feed", feed), zap.Error(err))
		}
	}

	if m.repo != nil && m.cfg.AutoSave {
		if err := m.repo.ReplaceFeed(context.Background(), feed, events); err != nil {
			m.logger.Error("persisting feed failed", zap.String("feed", feed), zap.Error(err))
		}
	}

	m.logger.Info("feed reloaded", zap.String("feed", feed), zap.Int("events", len(events)))
	return m.showMessage(fmt.Sprintf("Reloaded %s (%d events)", feed, len(events)))
}

func (m *Model) persistAdd(ev calendar.Event) {
	if m.repo == nil || !m.cfg.AutoSave {
		return
	}
	if err := m.repo.SaveEvent(context.Background(), ev); err != nil {
		m.logger.Error("saving event failed", zap.String("id", ev.ID), zap.Error(err))
	}
}

func (m *Model) persistUpdate(ev calendar.Event) {
	if m.repo == nil || !m.cfg.AutoSave {
		return
	}
	if err := m.repo.UpdateEvent(context.Background(), ev); err != nil {
		m.logger.Error("updating event failed", zap.String("id", ev.ID), zap.Error(err))
	}
}

func (m *Model) persistDelete(ev calendar.Event) {
	if m.repo == nil || !m.cfg.AutoSave {
		return
	}
	if err := m.repo.DeleteEvent(context.Background(), ev.ID); err != nil {
		m.logger.Error("deleting event failed", zap.String("id", ev.ID), zap.Error(err))
	}
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.msgSeq++
	seq := m.msgSeq
	m.message = msg
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}
