package chat

import (
	"sort"
	"time"
)

const titleLimit = 50

// emptyTitle labels a session that has no usable message content.
const emptyTitle = "New Chat"

// BuildSessions reduces the backend's flat message log to the session list
// shown in the sidebar. The reduction is pure: the same (log, now) pair
// always yields the same titles and ordering, so every refresh rebuilds from
// scratch instead of patching the previous result. Hidden roles (system,
// tool) are dropped before grouping. The second return value counts
// malformed entries — messages without a chat id — that were skipped.
func BuildSessions(log []Message, now time.Time) ([]Session, int) {
	index := make(map[string]int)
	sessions := make([]Session, 0, 8)
	dropped := 0

	for _, msg := range log {
		if !visible(msg.Role) {
			continue
		}
		if msg.ID == "" {
			dropped++
			continue
		}
		i, ok := index[msg.ID]
		if !ok {
			i = len(sessions)
			index[msg.ID] = i
			sessions = append(sessions, Session{ID: msg.ID})
		}
		sessions[i].Messages = append(sessions[i].Messages, msg)
		// Most recently processed message wins; log order is preserved.
		sessions[i].LastMessageTime = msg.Time(now)
	}

	for i := range sessions {
		sessions[i].Title = deriveTitle(sessions[i].Messages)
		sessions[i].TimeAgo = TimeAgo(sessions[i].LastMessageTime, now)
	}

	// Most recent session first; ties keep first-seen log order.
	sort.SliceStable(sessions, func(a, b int) bool {
		return sessions[a].LastMessageTime.After(sessions[b].LastMessageTime)
	})

	return sessions, dropped
}

// deriveTitle picks the first user-authored message, falling back to the
// first message of any visible role, then to the empty-session placeholder.
func deriveTitle(msgs []Message) string {
	for _, m := range msgs {
		if m.Role == RoleUser {
			return truncateTitle(m.Content)
		}
	}
	if len(msgs) > 0 {
		return truncateTitle(msgs[0].Content)
	}
	return emptyTitle
}

func truncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}
