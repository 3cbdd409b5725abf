// Package ui holds the terminal styles shared by the CLI.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// ANSI colors only, so output follows the user's terminal theme.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// AnswerStyle frames replies printed by ask, save and recent.
	AnswerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
	SecretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
