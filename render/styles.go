package render

import "github.com/charmbracelet/lipgloss"

// Styles for the terminal preview.
var (
	// TitleStyle renders the preview header.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// ScreenStyle frames the emulated display area.
	ScreenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("51"))

	// StatusStyle renders the frame counter line.
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// HelpStyle renders the quit hint.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)
