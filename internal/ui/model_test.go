package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"campuscal/internal/calendar"
	"campuscal/internal/config"
)

func newTestModel() *Model {
	cfg := config.DefaultConfig()
	m := NewModel(cfg, calendar.NewStore(), calendar.NewPinSet(), nil, zap.NewNop())
	m.width = 100
	m.height = 40
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestDialogStateMachine(t *testing.T) {
	m := newTestModel()

	if m.mode != ViewMonth {
		t.Fatalf("initial mode = %v, want ViewMonth", m.mode)
	}

	// Month -> day dialog on enter.
	m.Update(key("enter"))
	if m.mode != ViewDayDialog {
		t.Errorf("mode after enter = %v, want ViewDayDialog", m.mode)
	}
	if m.dialogKey != calendar.KeyOf(m.selected) {
		t.Errorf("dialogKey = %s, want %s", m.dialogKey, calendar.KeyOf(m.selected))
	}

	// Day dialog -> add dialog on a.
	m.Update(key("a"))
	if m.mode != ViewAddEvent {
		t.Errorf("mode after a = %v, want ViewAddEvent", m.mode)
	}
	if m.form.multiDay {
		t.Error("single-day add should not be multiDay")
	}

	// Add dialog -> day dialog on escape.
	m.Update(key("esc"))
	if m.mode != ViewDayDialog {
		t.Errorf("mode after esc = %v, want ViewDayDialog", m.mode)
	}

	// Day dialog -> month on escape.
	m.Update(key("esc"))
	if m.mode != ViewMonth {
		t.Errorf("mode after second esc = %v, want ViewMonth", m.mode)
	}
}

func TestOpeningDayDialogDismissesPreview(t *testing.T) {
	m := newTestModel()

	m.previewOpen = true
	m.previewKey = calendar.KeyOf(m.selected)
	seqBefore := m.previewSeq

	m.Update(key("enter"))

	if m.previewOpen {
		t.Error("preview should close when the day dialog opens")
	}
	if m.previewSeq == seqBefore {
		t.Error("preview sequence should advance to cancel pending timers")
	}
}

func TestPreviewTimerSequencing(t *testing.T) {
	m := newTestModel()

	m.schedulePreview()
	current := m.previewSeq

	// A stale show must not open the preview.
	m.Update(previewShowMsg{seq: current - 1})
	if m.previewOpen {
		t.Error("stale previewShowMsg opened the preview")
	}

	// The current one does.
	m.Update(previewShowMsg{seq: current})
	if !m.previewOpen {
		t.Error("current previewShowMsg did not open the preview")
	}
	if m.previewKey != calendar.KeyOf(m.selected) {
		t.Errorf("previewKey = %s, want %s", m.previewKey, calendar.KeyOf(m.selected))
	}

	// The show consumed its sequence, so a hide scheduled with it is
	// now stale and must not close the pane.
	m.Update(previewHideMsg{seq: current})
	if !m.previewOpen {
		t.Error("hide with a consumed sequence closed the preview")
	}

	// A hide carrying the live sequence still closes (the case where
	// its show never landed).
	m.Update(previewHideMsg{seq: m.previewSeq})
	if m.previewOpen {
		t.Error("current previewHideMsg did not close the preview")
	}
}

func TestPreviewStaysOpenWhileDwelling(t *testing.T) {
	m := newTestModel()

	// Open the preview on the current day.
	m.schedulePreview()
	m.Update(previewShowMsg{seq: m.previewSeq})
	if !m.previewOpen {
		t.Fatal("preview did not open")
	}

	// Move one day: the open delay and the linger close are scheduled
	// together for the new selection.
	m.Update(key("l"))
	seq := m.previewSeq

	// The show lands first and repoints the pane at the new day.
	m.Update(previewShowMsg{seq: seq})
	if !m.previewOpen {
		t.Fatal("preview did not reopen on the new day")
	}
	if m.previewKey != calendar.KeyOf(m.selected) {
		t.Fatalf("previewKey = %s, want %s", m.previewKey, calendar.KeyOf(m.selected))
	}

	// The linger close fires afterwards; the pane is current now and
	// must stay open.
	m.Update(previewHideMsg{seq: seq})
	if !m.previewOpen {
		t.Error("preview closed while still dwelling on the selected day")
	}
}

func TestMoveSelectionReanchorsMonth(t *testing.T) {
	m := newTestModel()
	m.anchor = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)
	m.selected = time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)

	m.Update(key("l"))

	if !calendar.SameDay(m.selected, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("selected = %v, want April 1", m.selected)
	}
	if m.anchor.Month() != time.April {
		t.Errorf("anchor month = %v, want April", m.anchor.Month())
	}
}

func TestMonthNavigation(t *testing.T) {
	m := newTestModel()
	m.anchor = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)
	m.selected = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local)

	m.Update(key(">"))
	if m.anchor.Month() != time.April || m.anchor.Day() != 1 {
		t.Errorf("anchor after > = %v, want April 1", m.anchor)
	}
	if !calendar.SameDay(m.selected, m.anchor) {
		t.Error("selection should land on the 1st of the new month")
	}

	m.Update(key("<"))
	m.Update(key("<"))
	if m.anchor.Month() != time.February {
		t.Errorf("anchor after << = %v, want February", m.anchor.Month())
	}
}

func TestPinToggleKey(t *testing.T) {
	m := newTestModel()
	k := calendar.KeyOf(m.selected)

	m.Update(key("p"))
	if !m.pins.Pinned(k) {
		t.Error("p should pin the selected day")
	}

	m.Update(key("p"))
	if m.pins.Pinned(k) {
		t.Error("second p should unpin the selected day")
	}
}

func TestAddEventThroughForm(t *testing.T) {
	m := newTestModel()
	m.selected = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)

	m.Update(key("enter"))
	m.Update(key("a"))

	// The form is prefilled with the dialog day.
	if m.form.start != "2026-03-10" {
		t.Fatalf("form start = %q, want 2026-03-10", m.form.start)
	}

	typeString(m, "Midterm")
	m.Update(key("down")) // to date field
	m.Update(key("down")) // to time field
	typeString(m, "14:00")
	m.Update(key("enter"))

	if m.mode != ViewDayDialog {
		t.Errorf("mode after save = %v, want ViewDayDialog", m.mode)
	}
	if m.store.Len() != 1 {
		t.Fatalf("store has %d events, want 1", m.store.Len())
	}

	ev := m.store.Events()[0]
	if ev.Title != "Midterm" {
		t.Errorf("title = %q, want Midterm", ev.Title)
	}
	if ev.TimeOfDay != "14:00" {
		t.Errorf("time = %q, want 14:00", ev.TimeOfDay)
	}
	if calendar.KeyOf(ev.Start) != "2026-03-10" {
		t.Errorf("start = %s, want 2026-03-10", calendar.KeyOf(ev.Start))
	}
}

func TestAddMultiDayEventThroughForm(t *testing.T) {
	m := newTestModel()
	m.selected = time.Date(2026, time.March, 23, 0, 0, 0, 0, time.Local)

	m.Update(key("enter"))
	m.Update(key("A"))

	if !m.form.multiDay {
		t.Fatal("A should open the multi-day form")
	}

	typeString(m, "Spring Break")
	m.Update(key("down")) // start
	m.Update(key("down")) // end
	for i := 0; i < len("2026-03-23"); i++ {
		m.Update(key("backspace"))
	}
	typeString(m, "2026-03-27")
	m.Update(key("enter"))

	if m.store.Len() != 1 {
		t.Fatalf("store has %d events, want 1", m.store.Len())
	}
	if got := m.store.Events()[0].Days(); got != 5 {
		t.Errorf("event spans %d days, want 5", got)
	}
}

func TestEditEventThroughForm(t *testing.T) {
	m := newTestModel()
	m.selected = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)

	ev, err := m.store.Add("Quiz", m.selected, m.selected, "09:00", calendar.ColorBlue)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	m.Update(key("enter"))
	m.Update(key("e"))

	if m.mode != ViewAddEvent {
		t.Fatalf("mode after e = %v, want ViewAddEvent", m.mode)
	}
	if m.form.editID != ev.ID {
		t.Fatalf("form editID = %q, want %q", m.form.editID, ev.ID)
	}
	if m.form.title != "Quiz" || m.form.timeStr != "09:00" {
		t.Fatalf("form not prefilled: title=%q time=%q", m.form.title, m.form.timeStr)
	}

	typeString(m, " 2")
	m.Update(key("enter"))

	if m.mode != ViewDayDialog {
		t.Errorf("mode after save = %v, want ViewDayDialog", m.mode)
	}
	if m.store.Len() != 1 {
		t.Fatalf("store has %d events, want 1", m.store.Len())
	}

	got, ok := m.store.Get(ev.ID)
	if !ok {
		t.Fatal("edited event lost its id")
	}
	if got.Title != "Quiz 2" {
		t.Errorf("title = %q, want %q", got.Title, "Quiz 2")
	}
	if got.TimeOfDay != "09:00" || got.Color != calendar.ColorBlue {
		t.Errorf("unchanged fields drifted: time=%q color=%v", got.TimeOfDay, got.Color)
	}
}

func TestInvalidEditLeavesEventUntouched(t *testing.T) {
	m := newTestModel()
	m.selected = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)

	ev, err := m.store.Add("Quiz", m.selected, m.selected, "", calendar.ColorRed)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	m.Update(key("enter"))
	m.Update(key("e"))

	// Blank out the title; the save must fail and change nothing.
	for i := 0; i < len("Quiz"); i++ {
		m.Update(key("backspace"))
	}
	m.Update(key("enter"))

	if m.mode != ViewAddEvent {
		t.Errorf("mode = %v, want ViewAddEvent to stay open", m.mode)
	}
	if m.form.errText == "" {
		t.Error("error text should be set after an invalid save")
	}

	got, _ := m.store.Get(ev.ID)
	if got.Title != "Quiz" {
		t.Errorf("title = %q, want the original %q", got.Title, "Quiz")
	}
}

func TestInvalidAddKeepsDialogOpen(t *testing.T) {
	m := newTestModel()

	m.Update(key("enter"))
	m.Update(key("a"))

	// Empty title: save must fail and leave the store unchanged.
	m.Update(key("enter"))

	if m.mode != ViewAddEvent {
		t.Errorf("mode = %v, want ViewAddEvent to stay open", m.mode)
	}
	if m.form.errText == "" {
		t.Error("error text should be set after an invalid save")
	}
	if m.store.Len() != 0 {
		t.Errorf("store has %d events, want 0", m.store.Len())
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := newTestModel()
	m.selected = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)

	_, err := m.store.Add("Quiz", m.selected, m.selected, "", calendar.ColorRed)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	m.Update(key("enter"))

	// First d arms the confirmation, second deletes.
	m.Update(key("d"))
	if m.store.Len() != 1 {
		t.Fatal("first d should not delete yet")
	}
	m.Update(key("d"))
	if m.store.Len() != 0 {
		t.Error("second d should delete the event")
	}
}

func TestColorCycling(t *testing.T) {
	m := newTestModel()
	m.Update(key("enter"))
	m.Update(key("a"))

	start := m.form.color
	for i := 0; i < calendar.PaletteSize; i++ {
		m.Update(key("tab"))
	}
	if m.form.color != start {
		t.Errorf("cycling the full palette should return to %v, got %v", start, m.form.color)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel()

	m.Update(key("?"))
	if m.mode != ViewHelp {
		t.Errorf("mode = %v, want ViewHelp", m.mode)
	}

	m.Update(key("?"))
	if m.mode != ViewMonth {
		t.Errorf("mode = %v, want ViewMonth", m.mode)
	}
}
