package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit      key.Binding
	Send      key.Binding
	NewChat   key.Binding
	FocusNext key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up", "previous session"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down", "next session"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open session"),
		),
	}
}

var helpFooterStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#44475A")).
	Italic(true).
	Padding(0, 1)

func renderHelpFooter(width int) string {
	return helpFooterStyle.Width(width).
		Render("enter send | tab focus | ctrl+n new chat | ctrl+c quit")
}
