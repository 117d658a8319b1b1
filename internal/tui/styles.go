package tui

import "github.com/charmbracelet/lipgloss"

var (
	blue  = lipgloss.Color("#7AA2F7")
	green = lipgloss.Color("#9ECE6A")
	red   = lipgloss.Color("#F7768E")
	grey  = lipgloss.Color("#565F89")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(blue)
	userStyle   = lipgloss.NewStyle().Foreground(grey)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(blue)
	doneStyle   = lipgloss.NewStyle().Foreground(green)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(red)
	helpStyle   = lipgloss.NewStyle().Foreground(grey)
	labelStyle  = lipgloss.NewStyle().Width(10)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1)
)
