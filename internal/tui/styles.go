package tui

import (
	"kb-console/internal/chat"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorBg      = "#0F172A"
	colorBgAlt   = "#1E293B"
	colorFg      = "#F8FAFC"
	colorFgMuted = "#94A3B8"
	colorBorder  = "#334155"
	colorPrimary = "#3B82F6"
	colorAccent  = "#06B6D4"
	colorError   = "#EF4444"
)

var (
	viewportStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFg)).
			Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	assistantBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#10B981")).
				Padding(0, 2)

	systemBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F59E0B")).
				Background(lipgloss.Color(colorBgAlt)).
				Padding(0, 2)

	errorBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color(colorError)).
				Padding(0, 2)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")).
			Italic(true).
			Padding(0, 2)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFg)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder))

	inputFocusedStyle = inputStyle.
				BorderForeground(lipgloss.Color(colorPrimary))

	sidebarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	sidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	sessionTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorFg))

	sessionTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorFgMuted))

	activeSessionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color(colorPrimary))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Background(lipgloss.Color(colorBgAlt)).
			Padding(0, 1)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Padding(1, 2)
)

// renderEntry draws one transcript row: a role header and the content
// bubble. Entries are rendered once and cached by the model; resizes flush
// the cache.
func renderEntry(e chat.Entry, width int) string {
	var bubble lipgloss.Style
	var label string

	switch e.Role {
	case chat.RoleUser:
		bubble = userBubbleStyle
		label = "You"
	case chat.RoleAssistant:
		bubble = assistantBubbleStyle
		label = "Assistant"
	case chat.RoleError:
		bubble = errorBubbleStyle
		label = "Error"
	default:
		bubble = systemBubbleStyle
		label = e.Role
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorFgMuted)).
		Render(label)

	return header + "\n" + bubble.Width(width).Render(e.Content)
}
