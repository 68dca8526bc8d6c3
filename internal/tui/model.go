package tui

import (
	"context"
	"strings"
	"time"

	"kb-console/internal/app"
	"kb-console/internal/chat"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Backend is the slice of the search service this view needs. Satisfied by
// *backend.Client; tests substitute a fake.
type Backend interface {
	History(ctx context.Context) ([]chat.Message, error)
	Search(ctx context.Context, query, chatID string) (string, error)
	ClearHistory(ctx context.Context) error
}

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
	focusFilter
)

const welcomeText = "Welcome to kb-console!\n\n" +
	"Ask anything about your document base and the assistant will search it for you.\n\n" +
	"- Type a message and press Enter to send\n" +
	"- Tab moves between input, sidebar and filter\n" +
	"- Ctrl+N starts a new chat"

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type MainModel struct {
	ctrl    *chat.Controller
	entries *chat.EntryLog
	backend Backend
	log     *app.Logger

	input    textarea.Model
	filter   textinput.Model
	viewport viewport.Model
	keys     keyMap

	focus      focusArea
	cursor     int
	width      int
	height     int
	ready      bool
	spinnerPos int

	// rendered caches each entry's drawn block by sequence number so prior
	// rows are never re-rendered; flushed on resize.
	rendered map[int]string
}

type historyMsg struct {
	log []chat.Message
	err error
}

type searchDoneMsg struct {
	chatID string
	result string
	err    error
}

type clearDoneMsg struct {
	err error
}

type spinMsg struct{}

func New(b Backend, log *app.Logger) *MainModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about your documents... (Enter to send)"
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(60)
	ta.SetHeight(3)
	ta.Prompt = "▍ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	fi := textinput.New()
	fi.Placeholder = "Filter conversations"
	fi.CharLimit = 100
	fi.Width = sidebarWidth - 6
	fi.Prompt = "/ "

	entries := chat.NewEntryLog()

	return &MainModel{
		ctrl:     chat.NewController(entries, log),
		entries:  entries,
		backend:  b,
		log:      log,
		input:    ta,
		filter:   fi,
		keys:     defaultKeyMap(),
		focus:    focusInput,
		width:    100,
		height:   30,
		rendered: make(map[int]string),
	}
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.fetchHistory())
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(m.chatWidth(), m.chatHeight())
		m.viewport.Style = viewportStyle
		m.input.SetWidth(m.chatWidth() - 2)
		m.ready = true
		// Widths changed; every row has to be drawn again.
		m.rendered = make(map[int]string)
		m.syncViewport()
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case historyMsg:
		now := time.Now()
		if msg.err != nil {
			// Fetch failures degrade to an empty sidebar; the rest of the
			// UI keeps working.
			m.log.Error("tui", "history fetch failed", map[string]interface{}{
				"error": msg.err.Error(),
			})
			m.ctrl.ApplyLog(nil, now)
		} else {
			m.ctrl.ApplyLog(msg.log, now)
		}
		m.clampCursor()
		return m, nil

	case searchDoneMsg:
		applied := m.ctrl.CompleteSend(msg.chatID, msg.result, msg.err, time.Now())
		if applied {
			m.syncViewport()
			m.viewport.GotoBottom()
			if msg.err == nil {
				// Reconcile the sidebar with the backend's now-updated log.
				return m, m.fetchHistory()
			}
		}
		return m, nil

	case clearDoneMsg:
		if msg.err != nil {
			// Fire-and-forget: a failed server-side clear never blocks the
			// local reset.
			m.log.Error("tui", "history clear failed", map[string]interface{}{
				"error": msg.err.Error(),
			})
		}
		return m, nil

	case spinMsg:
		if m.ctrl.Sending() {
			m.spinnerPos = (m.spinnerPos + 1) % len(spinner)
			m.syncViewport()
			return m, m.spinTick()
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *MainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewChat):
		m.ctrl.StartNewSession()
		m.cursor = 0
		m.focus = focusInput
		m.input.Focus()
		m.filter.Blur()
		m.syncViewport()
		return m, m.clearServerHistory()

	case key.Matches(msg, m.keys.FocusNext):
		m.cycleFocus()
		return m, nil
	}

	switch m.focus {
	case focusInput:
		if key.Matches(msg, m.keys.Send) {
			return m.submit()
		}
	case focusSidebar:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visibleSessions())-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			sessions := m.visibleSessions()
			if m.cursor >= 0 && m.cursor < len(sessions) {
				m.ctrl.SelectSession(sessions[m.cursor].ID)
				m.syncViewport()
				m.viewport.GotoBottom()
			}
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

// submit drives one send attempt. The controller refuses while a send is in
// flight, so a rapid double Enter cannot issue two requests.
func (m *MainModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	chatID, ok := m.ctrl.BeginSend(text, time.Now())
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.spinnerPos = 0
	m.syncViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.sendQuery(chatID, text), m.spinTick())
}

func (m *MainModel) cycleFocus() {
	m.input.Blur()
	m.filter.Blur()

	switch m.focus {
	case focusInput:
		m.focus = focusSidebar
		m.clampCursor()
	case focusSidebar:
		m.focus = focusFilter
		m.filter.Focus()
	default:
		m.focus = focusInput
		m.input.Focus()
	}
}

func (m *MainModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
		m.clampCursor()
	}
	return m, cmd
}

func (m *MainModel) clampCursor() {
	if n := len(m.visibleSessions()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *MainModel) chatWidth() int {
	return m.width - sidebarWidth - 4
}

func (m *MainModel) chatHeight() int {
	return m.height - 12
}

// syncViewport rebuilds the transcript view from the entry log. Rows are
// drawn at most once each (keyed by sequence number); only the pending
// placeholder is redrawn, to animate its spinner.
func (m *MainModel) syncViewport() {
	if !m.ready {
		return
	}

	es := m.entries.Entries()
	if len(es) == 0 {
		if m.ctrl.ActiveChatID() == "" {
			m.viewport.SetContent(welcomeStyle.Width(m.chatWidth()).Render(welcomeText))
		} else {
			m.viewport.SetContent("")
		}
		return
	}

	var b strings.Builder
	for _, e := range es {
		if e.Pending {
			b.WriteString(pendingStyle.Render(spinner[m.spinnerPos] + " " + e.Content))
			b.WriteString("\n\n")
			continue
		}
		block, ok := m.rendered[e.Seq]
		if !ok {
			block = renderEntry(e, m.chatWidth()-2)
			m.rendered[e.Seq] = block
		}
		b.WriteString(block)
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
}

func (m *MainModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.width < 80 || m.height < 20 {
		return "Resize terminal to at least 80x20."
	}

	header := headerStyle.Width(m.width - 2).Render(" kb-console ")

	transcript := lipgloss.NewStyle().
		Width(m.chatWidth()).
		Render(m.viewport.View())
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(m.chatHeight()), transcript)

	style := inputStyle
	if m.focus == focusInput {
		style = inputFocusedStyle
	}
	input := style.Width(m.chatWidth()).Render(m.input.View())

	status := " ready"
	if m.ctrl.Sending() {
		status = " " + spinner[m.spinnerPos] + " waiting for the search service..."
	}
	statusBar := statusStyle.Width(m.width - 2).Render(status)

	return strings.Join([]string{
		header,
		main,
		input,
		statusBar,
		renderHelpFooter(m.width - 2),
	}, "\n")
}

func (m *MainModel) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		log, err := m.backend.History(context.Background())
		return historyMsg{log: log, err: err}
	}
}

func (m *MainModel) sendQuery(chatID, query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.backend.Search(context.Background(), query, chatID)
		return searchDoneMsg{chatID: chatID, result: result, err: err}
	}
}

func (m *MainModel) clearServerHistory() tea.Cmd {
	return func() tea.Msg {
		return clearDoneMsg{err: m.backend.ClearHistory(context.Background())}
	}
}

func (m *MainModel) spinTick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(_ time.Time) tea.Msg {
		return spinMsg{}
	})
}
