package transcript

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	user      lipgloss.Style
	skill     lipgloss.Style
	reprompt  lipgloss.Style
	directive lipgloss.Style
	state     lipgloss.Style
	ended     lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		skill:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		reprompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		directive: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		state:     lipgloss.NewStyle().Faint(true),
		ended:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
	}
}
