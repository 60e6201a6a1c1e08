package cli

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8BC34A")
	danger = lipgloss.Color("#E57373")
	muted  = lipgloss.Color("#9AA5B1")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	metaStyle     = lipgloss.NewStyle().Foreground(muted)
	questionStyle = lipgloss.NewStyle().Bold(true)
	answerStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(accent)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)
)
