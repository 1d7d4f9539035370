package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the pipeline view.
type Styles struct {
	Title   lipgloss.Style
	Subtle  lipgloss.Style
	Faint   lipgloss.Style
	OK      lipgloss.Style
	Error   lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultStyles returns the standard palette. Colors degrade gracefully on
// terminals without 256-color support.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Faint:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	}
}
