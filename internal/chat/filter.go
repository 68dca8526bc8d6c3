package chat

import "strings"

// FilterSessions narrows sessions to those whose title or message content
// contains query, case-insensitively. An empty query returns the input
// untouched, in its original order. The source slice is never mutated.
func FilterSessions(sessions []Session, query string) []Session {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return sessions
	}

	matched := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if sessionMatches(s, query) {
			matched = append(matched, s)
		}
	}
	return matched
}

func sessionMatches(s Session, query string) bool {
	if strings.Contains(strings.ToLower(s.Title), query) {
		return true
	}
	for _, m := range s.Messages {
		if strings.Contains(strings.ToLower(m.Content), query) {
			return true
		}
	}
	return false
}
