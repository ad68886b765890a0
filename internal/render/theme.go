package render

import (
	"charm.land/lipgloss/v2"
)

// Color palette, kid-friendly and bright.
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	captionStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	questionStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(Text)

	correctStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(Secondary)

	headerStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(Error)
)
