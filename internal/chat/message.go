package chat

import "time"

// Role values as they appear in the backend's flat conversation log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
	RoleError     = "error"
)

// Message is one entry of the backend's append-only conversation log.
// ID carries the chat (session) id the entry belongs to, not a per-message
// id. The leading system prompt in the real log has no id at all, and
// assistant tool-call stubs arrive with null content; both must be tolerated.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// timestampLayouts covers RFC3339 plus the zone-less ISO form the backend
// writes (datetime.isoformat with microseconds).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Time parses the entry timestamp, falling back to now when the field is
// absent or unparseable. The fallback is best effort, not a guarantee the
// backend supplied a time.
func (m Message) Time(now time.Time) time.Time {
	if m.Timestamp == "" {
		return now
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, m.Timestamp); err == nil {
			return t
		}
	}
	return now
}

// visible reports whether an entry is ever surfaced to the user. System
// prompts and tool plumbing stay internal to the backend log.
func visible(role string) bool {
	return role == RoleUser || role == RoleAssistant
}

// Session is a materialized grouping of all log messages sharing a chat id.
// Sessions are not stored anywhere; they are recomputed from the flat log on
// every fetch. TimeAgo is the label as of that fetch; renderers that redraw
// between fetches recompute it from LastMessageTime.
type Session struct {
	ID              string
	Title           string
	Messages        []Message
	LastMessageTime time.Time
	TimeAgo         string
}
