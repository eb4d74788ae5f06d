// Package ui holds terminal styles for the CLI help output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle ANSI 6 (cyan), readable on light and dark terminals.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is dimmed so command names stand out.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// AckStyle colors assistant replies in the chat REPL.
	AckStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// ErrorStyle colors failed completions in the chat REPL.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
