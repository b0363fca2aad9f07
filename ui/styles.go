package ui

import "github.com/charmbracelet/lipgloss"

var (
	Primary     = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6b7280")
	Destructive = lipgloss.Color("#e53935")
	Info        = lipgloss.Color("#2196F3")
)

type Styles struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Subtitle lipgloss.Style
	Badge    lipgloss.Style
	Sender   lipgloss.Style
	Meta     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Primary),
		Subtitle: lipgloss.NewStyle().Foreground(Muted),
		Badge:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(Info).Padding(0, 1),
		Sender:   lipgloss.NewStyle().Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(Muted),
		Status:   lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
		Error:    lipgloss.NewStyle().Foreground(Destructive).MarginTop(1),
		Help:     lipgloss.NewStyle().Foreground(Muted),
	}
}
