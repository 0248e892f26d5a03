package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"campuscal/internal/calendar"
)

const (
	cellWidth     = 5
	maxStripMarks = 3
)

func (m *Model) viewMonth() string {
	grid := m.renderGrid()

	var body string
	if m.previewOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", m.renderPreview())
	} else {
		body = grid
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		"",
		body,
		"",
		m.renderStatusBar(),
	)
}

func (m *Model) renderTitle() string {
	title := fmt.Sprintf("%s — %s", m.cfg.Title, m.anchor.Format("January 2006"))
	return m.styles.Header.Render(title)
}

func (m *Model) renderGrid() string {
	days := calendar.VisibleDays(m.anchor, m.cfg.WeekStartDay)
	index := m.store.Index()
	today := time.Now()

	var lines []string
	lines = append(lines, m.renderWeekdayHeader())

	for week := 0; week < len(days)/7; week++ {
		var numberCells, stripCells []string

		for weekday := 0; weekday < 7; weekday++ {
			day := days[week*7+weekday]
			key := calendar.KeyOf(day)

			numberCells = append(numberCells, m.renderDayCell(day, key, today))
			stripCells = append(stripCells, m.renderEventStrip(index[key]))
		}

		lines = append(lines, strings.Join(numberCells, ""))
		lines = append(lines, strings.Join(stripCells, ""))
	}

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderWeekdayHeader() string {
	var cells []string
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(m.cfg.WeekStartDay) + i) % 7)
		name := wd.String()[:2]
		cells = append(cells, m.styles.Header.Render(padCell(name)))
	}
	return strings.Join(cells, "")
}

// renderDayCell styles one day number: selection wins, then today,
// then pin, then dim for out-of-month days.
func (m *Model) renderDayCell(day time.Time, key calendar.DayKey, today time.Time) string {
	label := fmt.Sprintf("%2d", day.Day())
	if m.pins.Pinned(key) {
		label += "•"
	}
	label = padCell(label)

	switch {
	case calendar.SameDay(day, m.selected):
		return m.styles.Selected.Render(label)
	case calendar.SameDay(day, today):
		return m.styles.Today.Render(label)
	case m.pins.Pinned(key):
		return m.styles.Pinned.Render(label)
	case day.Month() != m.anchor.Month():
		return m.styles.Dimmed.Render(label)
	case day.Weekday() == time.Saturday || day.Weekday() == time.Sunday:
		return m.styles.Weekend.Render(label)
	default:
		return m.styles.Normal.Render(label)
	}
}

// renderEventStrip draws up to three colored marks for a day's events
// plus an overflow count.
func (m *Model) renderEventStrip(events []calendar.Event) string {
	if len(events) == 0 {
		return padCell("")
	}

	var marks string
	shown := len(events)
	if shown > maxStripMarks {
		shown = maxStripMarks
	}
	for _, ev := range events[:shown] {
		marks += eventStyle(ev.Color).Render("▪")
	}

	overflow := ""
	if len(events) > maxStripMarks {
		overflow = m.styles.Dimmed.Render(fmt.Sprintf("+%d", len(events)-maxStripMarks))
	}

	pad := cellWidth - shown - lipgloss.Width(overflow)
	if pad < 0 {
		pad = 0
	}
	return marks + overflow + strings.Repeat(" ", pad)
}

func padCell(s string) string {
	w := lipgloss.Width(s)
	if w >= cellWidth {
		return s
	}
	return s + strings.Repeat(" ", cellWidth-w)
}

// renderPreview is the hover popover: the selected day's events in a
// bordered pane beside the grid.
func (m *Model) renderPreview() string {
	day, err := calendar.ParseKey(m.previewKey)
	if err != nil {
		return ""
	}

	boxWidth := m.width - 7*cellWidth - 8
	if boxWidth < 24 {
		boxWidth = 24
	}

	var lines []string
	header := day.Format(m.cfg.DateFormat)
	if m.pins.Pinned(m.previewKey) {
		header += " •"
	}
	lines = append(lines, m.styles.Header.Render(header))
	lines = append(lines, "")

	events := m.store.EventsOn(day)
	if len(events) == 0 {
		lines = append(lines, m.styles.Help.Render("(no events)"))
	} else {
		for _, ev := range events {
			lines = append(lines, m.renderEventLine(ev, boxWidth-4)...)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.styles.Border.Width(boxWidth).Render(content)
}

// renderEventLine formats one event as a colored dot, optional time,
// and a wordwrapped title.
func (m *Model) renderEventLine(ev calendar.Event, maxWidth int) []string {
	if maxWidth < 16 {
		maxWidth = 16
	}

	head := eventStyle(ev.Color).Render("●") + " "
	if ev.TimeOfDay != "" {
		head += m.styles.Normal.Render(ev.TimeOfDay) + " "
	}

	var out []string
	wrapped := wordwrap.String(ev.Title, maxWidth)
	for i, line := range strings.Split(wrapped, "\n") {
		if line == "" {
			continue
		}
		if i == 0 {
			out = append(out, head+line)
		} else {
			out = append(out, "  "+line)
		}
	}

	if ev.Days() > 1 {
		span := fmt.Sprintf("  %s – %s", ev.Start.Format("Jan 2"), ev.End.Format("Jan 2"))
		out = append(out, m.styles.Help.Render(span))
	}
	return out
}

func (m *Model) viewDayDialog() string {
	day, err := calendar.ParseKey(m.dialogKey)
	if err != nil {
		return m.viewMonth()
	}

	boxWidth := m.width / 2
	if boxWidth < 40 {
		boxWidth = 40
	}

	var lines []string
	header := day.Format("Monday, " + m.cfg.DateFormat)
	if m.pins.Pinned(m.dialogKey) {
		header += " •"
	}
	lines = append(lines, m.styles.Header.Render(header))
	lines = append(lines, "")

	events := m.dialogEvents()
	if len(events) == 0 {
		lines = append(lines, m.styles.Help.Render("(no events on this day)"))
	} else {
		for i, ev := range events {
			cursor := "  "
			if i == m.dialogIndex {
				cursor = m.styles.Selected.Render("> ")
			}
			line := cursor + eventStyle(ev.Color).Render("●") + " "
			if ev.TimeOfDay != "" {
				line += ev.TimeOfDay + " "
			}
			line += ev.Title
			if ev.Feed != "" {
				line += m.styles.Dimmed.Render(" [" + ev.Feed + "]")
			}
			lines = append(lines, line)
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.Help.Render("a: add event  A: add multi-day  e: edit  d: delete  p: pin  esc: close"))

	box := m.styles.Border.Width(boxWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.JoinVertical(lipgloss.Left, box, "", m.renderStatusBar())
}

func (m *Model) viewAddEvent() string {
	var sections []string

	header := "New Event"
	if m.form.multiDay {
		header = "New Multi-Day Event"
	}
	if m.form.editID != "" {
		header = "Edit Event"
	}
	sections = append(sections, m.styles.Header.Render(header))
	sections = append(sections, "")

	labels := []string{"Title", "Date", "Time"}
	values := []string{m.form.title, m.form.start, m.form.timeStr}
	if m.form.multiDay {
		labels = []string{"Title", "Start", "End", "Time"}
		values = []string{m.form.title, m.form.start, m.form.end, m.form.timeStr}
	}

	for i, label := range labels {
		value := values[i]
		if i == m.form.focus {
			value += "█"
			sections = append(sections, fmt.Sprintf("%-6s %s", label+":", m.styles.Selected.Render(value)))
		} else {
			sections = append(sections, fmt.Sprintf("%-6s %s", label+":", m.styles.Normal.Render(value)))
		}
	}

	swatch := eventStyle(m.form.color).Render("▪▪▪")
	sections = append(sections, fmt.Sprintf("%-6s %s %s", "Color:", swatch, m.form.color.String()))

	if m.form.errText != "" {
		sections = append(sections, "")
		sections = append(sections, m.styles.Error.Render(m.form.errText))
	}

	sections = append(sections, "")
	sections = append(sections, m.styles.Help.Render("↑/↓: field  tab: color  enter: save  esc: cancel"))

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("Campus Calendar Help"),
		"",
		m.styles.Normal.Render("Navigation:"),
		m.styles.Help.Render("  h/←     - Previous day"),
		m.styles.Help.Render("  l/→     - Next day"),
		m.styles.Help.Render("  j/↓     - Next week"),
		m.styles.Help.Render("  k/↑     - Previous week"),
		m.styles.Help.Render("  </>     - Previous/next month"),
		m.styles.Help.Render("  t       - Go to today"),
		"",
		m.styles.Normal.Render("Actions:"),
		m.styles.Help.Render("  enter   - Open day"),
		m.styles.Help.Render("  a       - Add event"),
		m.styles.Help.Render("  A       - Add multi-day event"),
		m.styles.Help.Render("  p       - Pin/unpin day"),
		m.styles.Help.Render("  e       - Edit event (in day view)"),
		m.styles.Help.Render("  d       - Delete event (in day view)"),
		m.styles.Help.Render("  ?       - Toggle help"),
		m.styles.Help.Render("  q       - Quit"),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf(" %s | Events: %d | Pins: %d",
		m.selected.Format(m.cfg.DateFormat),
		m.store.Len(),
		m.pins.Len())

	right := "? for help | q to quit"

	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left + middle + right)
}
