package ui

import (
	"github.com/charmbracelet/lipgloss"

	"campuscal/internal/calendar"
)

type Styles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Today    lipgloss.Style
	Weekend  lipgloss.Style
	Pinned   lipgloss.Style
	Dimmed   lipgloss.Style
	Header   lipgloss.Style
	Help     lipgloss.Style
	Message  lipgloss.Style
	Error    lipgloss.Style
	Border   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("220")).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Weekend: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		Pinned: lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true),
		Dimmed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Underline(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")),
	}
}

var paletteColors = map[calendar.Color]lipgloss.Color{
	calendar.ColorRed:    lipgloss.Color("196"),
	calendar.ColorOrange: lipgloss.Color("208"),
	calendar.ColorYellow: lipgloss.Color("220"),
	calendar.ColorGreen:  lipgloss.Color("40"),
	calendar.ColorTeal:   lipgloss.Color("43"),
	calendar.ColorBlue:   lipgloss.Color("39"),
	calendar.ColorPurple: lipgloss.Color("135"),
}

// eventStyle renders text in an event's palette color.
func eventStyle(c calendar.Color) lipgloss.Style {
	color, ok := paletteColors[c]
	if !ok {
		color = lipgloss.Color("252")
	}
	return lipgloss.NewStyle().Foreground(color)
}
