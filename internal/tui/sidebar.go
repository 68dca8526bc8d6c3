package tui

import (
	"strings"
	"time"

	"kb-console/internal/chat"
)

const sidebarWidth = 34

// visibleSessions applies the filter box to the latest aggregated set. The
// filter never mutates the aggregated list, so clearing the box restores the
// full sidebar in its original order.
func (m *MainModel) visibleSessions() []chat.Session {
	return chat.FilterSessions(m.ctrl.Sessions(), m.filter.Value())
}

func (m *MainModel) renderSidebar(height int) string {
	var b strings.Builder

	b.WriteString(sidebarTitleStyle.Width(sidebarWidth - 4).Render(" Conversations "))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	sessions := m.visibleSessions()
	now := time.Now()
	if len(sessions) == 0 {
		b.WriteString(sessionTimeStyle.Render("  No conversations yet"))
		b.WriteString("\n")
	}

	for i, s := range sessions {
		title := truncateLine(s.Title, sidebarWidth-8)

		marker := "  "
		if m.focus == focusSidebar && i == m.cursor {
			marker = "› "
		}

		// Highlighting is derived: exactly the session matching the active
		// chat id is marked, none when no session is active.
		if s.ID == m.ctrl.ActiveChatID() {
			b.WriteString(activeSessionStyle.Width(sidebarWidth - 4).Render(marker + title))
		} else {
			b.WriteString(marker + sessionTitleStyle.Render(title))
		}
		b.WriteString("\n")
		// Recomputed every render: the sidebar redraws far more often than
		// the log is refetched, and "Just now" must not outlive the minute.
		b.WriteString("  " + sessionTimeStyle.Render(chat.TimeAgo(s.LastMessageTime, now)))
		b.WriteString("\n")
	}

	return sidebarStyle.
		Width(sidebarWidth).
		Height(height).
		Render(b.String())
}

func truncateLine(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
