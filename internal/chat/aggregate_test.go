package chat

import (
	"strings"
	"testing"
	"time"
)

func ts(t time.Time) string {
	return t.Format(time.RFC3339)
}

func TestBuildSessions_GroupsAndOrders(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	t1 := now.Add(-5 * time.Minute)  // most recent
	t2 := now.Add(-2 * time.Hour)
	t3 := now.Add(-3 * 24 * time.Hour)

	// Input deliberately interleaved and not in recency order.
	log := []Message{
		{ID: "chat-3", Role: RoleUser, Content: "oldest question", Timestamp: ts(t3.Add(-time.Minute))},
		{ID: "chat-1", Role: RoleUser, Content: "newest question", Timestamp: ts(t1.Add(-time.Minute))},
		{ID: "chat-2", Role: RoleUser, Content: "middle question", Timestamp: ts(t2.Add(-time.Minute))},
		{ID: "chat-3", Role: RoleAssistant, Content: "oldest answer", Timestamp: ts(t3)},
		{ID: "chat-2", Role: RoleAssistant, Content: "middle answer", Timestamp: ts(t2)},
		{ID: "chat-1", Role: RoleAssistant, Content: "newest answer", Timestamp: ts(t1)},
	}

	sessions, dropped := BuildSessions(log, now)
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}

	var gotOrder []string
	for _, s := range sessions {
		gotOrder = append(gotOrder, s.ID)
	}
	want := []string{"chat-1", "chat-2", "chat-3"}
	if strings.Join(gotOrder, ",") != strings.Join(want, ",") {
		t.Fatalf("session order = %v, want %v", gotOrder, want)
	}

	if len(sessions[0].Messages) != 2 {
		t.Fatalf("chat-1 has %d messages, want 2", len(sessions[0].Messages))
	}
	if sessions[0].Messages[0].Content != "newest question" {
		t.Fatalf("messages lost log order: first = %q", sessions[0].Messages[0].Content)
	}
	if !sessions[0].LastMessageTime.Equal(t1) {
		t.Fatalf("chat-1 last message time = %v, want %v", sessions[0].LastMessageTime, t1)
	}
}

func TestBuildSessions_Idempotent(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	log := []Message{
		{ID: "chat-a", Role: RoleUser, Content: "alpha", Timestamp: ts(now.Add(-time.Hour))},
		{ID: "chat-b", Role: RoleUser, Content: "beta", Timestamp: ts(now.Add(-time.Minute))},
		{ID: "chat-a", Role: RoleAssistant, Content: "alpha reply", Timestamp: ts(now.Add(-time.Hour))},
	}

	first, _ := BuildSessions(log, now)
	second, _ := BuildSessions(log, now)

	if len(first) != len(second) {
		t.Fatalf("session counts diverged: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Title != second[i].Title || first[i].TimeAgo != second[i].TimeAgo {
			t.Fatalf("pass %d diverged at index %d: %+v vs %+v", 2, i, first[i], second[i])
		}
	}
}

func TestBuildSessions_SkipsHiddenRolesAndMalformed(t *testing.T) {
	now := time.Now()
	log := []Message{
		{Role: RoleSystem, Content: "you are a helpful assistant"}, // real logs: no id either
		{ID: "chat-a", Role: RoleSystem, Content: "hidden"},
		{ID: "chat-a", Role: RoleTool, Content: "tool output"},
		{Role: RoleUser, Content: "no id on this one", Timestamp: ts(now)},
		{ID: "chat-a", Role: RoleUser, Content: "visible", Timestamp: ts(now)},
	}

	sessions, dropped := BuildSessions(log, now)
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1 (the id-less user message)", dropped)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	for _, m := range sessions[0].Messages {
		if m.Role == RoleSystem || m.Role == RoleTool {
			t.Fatalf("hidden role %q leaked into the session", m.Role)
		}
	}
	if sessions[0].Title != "visible" {
		t.Fatalf("title = %q, want %q", sessions[0].Title, "visible")
	}
}

func TestBuildSessions_TitleTruncation(t *testing.T) {
	now := time.Now()
	long := strings.Repeat("a", 60)
	short := strings.Repeat("b", 40)

	log := []Message{
		{ID: "chat-long", Role: RoleUser, Content: long, Timestamp: ts(now.Add(-time.Minute))},
		{ID: "chat-short", Role: RoleUser, Content: short, Timestamp: ts(now)},
	}

	sessions, _ := BuildSessions(log, now)
	byID := map[string]Session{}
	for _, s := range sessions {
		byID[s.ID] = s
	}

	if got, want := byID["chat-long"].Title, strings.Repeat("a", 50)+"..."; got != want {
		t.Fatalf("long title = %q (len %d), want 50 chars plus ellipsis", got, len(got))
	}
	if got := byID["chat-short"].Title; got != short {
		t.Fatalf("short title = %q, want unchanged %q", got, short)
	}
}

func TestBuildSessions_TitleFallsBackToFirstMessage(t *testing.T) {
	now := time.Now()
	log := []Message{
		{ID: "chat-x", Role: RoleAssistant, Content: "assistant spoke first", Timestamp: ts(now)},
	}

	sessions, _ := BuildSessions(log, now)
	if sessions[0].Title != "assistant spoke first" {
		t.Fatalf("title = %q, want the first message's content", sessions[0].Title)
	}
}

func TestBuildSessions_MissingTimestampFallsBackToNow(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	log := []Message{
		{ID: "chat-x", Role: RoleUser, Content: "no timestamp"},
	}

	sessions, _ := BuildSessions(log, now)
	if !sessions[0].LastMessageTime.Equal(now) {
		t.Fatalf("last message time = %v, want fallback to now %v", sessions[0].LastMessageTime, now)
	}
	if sessions[0].TimeAgo != "Just now" {
		t.Fatalf("time ago = %q, want %q", sessions[0].TimeAgo, "Just now")
	}
}

func TestBuildSessions_ParsesZonelessTimestamps(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	log := []Message{
		{ID: "chat-x", Role: RoleUser, Content: "hi", Timestamp: "2025-05-10T09:30:00.123456"},
	}

	sessions, _ := BuildSessions(log, now)
	want := time.Date(2025, 5, 10, 9, 30, 0, 123456000, time.UTC)
	if !sessions[0].LastMessageTime.Equal(want) {
		t.Fatalf("parsed time = %v, want %v", sessions[0].LastMessageTime, want)
	}
}
