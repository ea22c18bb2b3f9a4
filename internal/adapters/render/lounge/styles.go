package lounge

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	count      lipgloss.Style
	working    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	author     lipgloss.Style
	self       lipgloss.Style
	text       lipgloss.Style
	timestamp  lipgloss.Style
	bubble     lipgloss.Style
	bubbleFade lipgloss.Style
	hint       lipgloss.Style
	warning    lipgloss.Style
	prompt     lipgloss.Style
}

func newStyles() styles {
	bubble := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("69")).
		Padding(0, 1).
		MarginTop(1)

	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		count:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		working:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		author:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		self:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		text:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		timestamp:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		bubble:     bubble,
		bubbleFade: bubble.BorderForeground(lipgloss.Color("238")).Faint(true),
		hint:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
	}
}
