package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kb-console/internal/app"
)

const (
	processingText   = "Processing..."
	emptyResultText  = "No specific results found or an unexpected response occurred."
	genericErrorText = "Something went wrong while contacting the server."
	noMessagesText   = "No messages yet."
)

// userFacingError is implemented by errors carrying text safe to surface
// verbatim in the transcript (the backend's own error field).
type userFacingError interface {
	UserMessage() string
}

// Controller owns the active-session state: which session is open, its
// transcript, the latest aggregated session list, and whether a send is in
// flight. All mutation happens through its methods so the state machine can
// be driven in tests without a UI attached.
type Controller struct {
	sink Sink
	log  *app.Logger

	activeChatID string // "" = unsaved new session
	transcript   []Message
	sessions     []Session
	inflight     string // chat id tag of the outstanding send, "" = idle
}

func NewController(sink Sink, log *app.Logger) *Controller {
	return &Controller{sink: sink, log: log}
}

func (c *Controller) ActiveChatID() string  { return c.activeChatID }
func (c *Controller) Transcript() []Message { return c.transcript }
func (c *Controller) Sessions() []Session   { return c.sessions }
func (c *Controller) Sending() bool         { return c.inflight != "" }

// ApplyLog rebuilds the session list from a freshly fetched log. The list is
// always rebuilt from scratch, never patched, so the sidebar cannot drift
// from the backend's source of truth.
func (c *Controller) ApplyLog(log []Message, now time.Time) {
	sessions, dropped := BuildSessions(log, now)
	if dropped > 0 {
		c.log.Warn("chat", "skipped log entries without a chat id", map[string]interface{}{
			"count": dropped,
		})
	}
	c.sessions = sessions
}

// SelectSession opens the session with the given id. A stale id — one that
// no longer exists in the aggregated set — renders a single placeholder row
// and leaves the transcript empty. The view is always cleared and
// re-rendered rather than diffed.
func (c *Controller) SelectSession(id string) {
	c.activeChatID = id
	c.transcript = nil
	c.sink.Clear()

	for _, s := range c.sessions {
		if s.ID != id {
			continue
		}
		c.transcript = append([]Message(nil), s.Messages...)
		for _, m := range s.Messages {
			c.sink.Append(Entry{Role: m.Role, Content: m.Content})
		}
		return
	}

	c.log.Info("chat", "selected session not in aggregated set", map[string]interface{}{
		"chat_id": id,
	})
	c.sink.Append(Entry{Role: RoleAssistant, Content: noMessagesText})
}

// StartNewSession resets to the unsaved-session state. No id exists until
// the first send allocates one; callers are responsible for asking the
// backend to clear its conversational context. An outstanding send stays
// outstanding: its response is discarded when it arrives, and only that
// arrival re-enables the send control, so sends stay serialized across the
// reset.
func (c *Controller) StartNewSession() {
	c.activeChatID = ""
	c.transcript = nil
	c.sink.Clear()
}

// BeginSend starts one send attempt. It returns the chat id the backend
// request must carry, or false when the attempt is rejected: empty trimmed
// text, or a send already in flight (sends are serialized). The user entry
// is appended optimistically, followed by the transient placeholder.
func (c *Controller) BeginSend(text string, now time.Time) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || c.inflight != "" {
		return "", false
	}
	if c.activeChatID == "" {
		c.activeChatID = fmt.Sprintf("chat-%d", now.UnixMilli())
	}

	c.transcript = append(c.transcript, Message{
		ID:        c.activeChatID,
		Role:      RoleUser,
		Content:   text,
		Timestamp: now.Format(time.RFC3339),
	})
	c.sink.Append(Entry{Role: RoleUser, Content: text})
	c.sink.Append(Entry{Role: RoleAssistant, Content: processingText, Pending: true})
	c.inflight = c.activeChatID
	return c.activeChatID, true
}

// CompleteSend applies the outcome of the send issued for chatID and reports
// whether it was applied. A response arriving after the active session
// changed is discarded, the transcript it was issued against no longer
// exists. Only the completion carrying the outstanding request's tag
// re-enables the send control; anything else leaves it as it was, so a
// reset mid-flight cannot let a second send overlap the first.
func (c *Controller) CompleteSend(chatID, result string, sendErr error, now time.Time) bool {
	if chatID == c.inflight {
		c.inflight = ""
	}
	if chatID != c.activeChatID {
		c.log.Info("chat", "discarding response for a replaced session", map[string]interface{}{
			"request_chat_id": chatID,
			"active_chat_id":  c.activeChatID,
		})
		return false
	}

	c.sink.RemovePending()

	switch {
	case sendErr != nil:
		c.log.Error("chat", "send failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   sendErr.Error(),
		})
		c.sink.Append(Entry{Role: RoleError, Content: errorText(sendErr)})
	case strings.TrimSpace(result) == "":
		c.appendAssistant(emptyResultText, now)
	default:
		c.appendAssistant(result, now)
	}
	return true
}

func (c *Controller) appendAssistant(content string, now time.Time) {
	c.transcript = append(c.transcript, Message{
		ID:        c.activeChatID,
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: now.Format(time.RFC3339),
	})
	c.sink.Append(Entry{Role: RoleAssistant, Content: content})
}

func errorText(err error) string {
	var uf userFacingError
	if errors.As(err, &uf) && strings.TrimSpace(uf.UserMessage()) != "" {
		return uf.UserMessage()
	}
	return genericErrorText
}
