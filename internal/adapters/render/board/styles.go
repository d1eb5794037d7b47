package board

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	table    lipgloss.Style
	idle     lipgloss.Style
	occupied lipgloss.Style
	detail   lipgloss.Style
	serial   lipgloss.Style
	amount   lipgloss.Style
	notice   lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		table:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		idle:     lipgloss.NewStyle().Faint(true),
		occupied: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		serial:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		amount:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
