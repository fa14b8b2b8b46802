package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/citydesk/citydesk"
)

var _ tea.Model = Model{}

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryTool
	entryError
)

// entry is one rendered line group in the transcript.
type entry struct {
	kind entryKind
	name string // tool name for entryTool
	body string
}

// Model is the Bubble Tea model for the citydesk chat.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	run       AgentFunc
	session   *citydesk.Session
	agentName string
	styles    Styles
	spin      spinner.Model

	entries []entry
	running bool
	cancel  context.CancelFunc
	results chan toolResultMsg
	err     error
	ready   bool
}

// New creates a chat Model for the given agent function and session.
func New(run AgentFunc, session *citydesk.Session, agentName string, theme Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the weather or time in a city..."
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		Input:     ti,
		run:       run,
		session:   session,
		agentName: agentName,
		styles:    NewStyles(theme),
		spin:      sp,
	}
	m.entries = transcriptEntries(session, m.styles)
	return m
}

// transcriptEntries rebuilds the transcript from a resumed session.
func transcriptEntries(session *citydesk.Session, styles Styles) []entry {
	var entries []entry
	for _, msg := range session.Messages {
		switch m := msg.(type) {
		case citydesk.UserMessage:
			for _, b := range m.Content {
				if tb, ok := b.(citydesk.TextBlock); ok {
					entries = append(entries, entry{kind: entryUser, body: tb.Text})
				}
			}
		case citydesk.AssistantMessage:
			if text := m.Text(); text != "" {
				entries = append(entries, entry{kind: entryAssistant, body: renderMarkdown(text, styles)})
			}
		case citydesk.ToolResultMessage:
			entries = append(entries, entry{kind: entryTool, name: m.ToolName, body: m.Result.Text()})
		}
	}
	return entries
}

// Running returns whether a dispatch turn is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last turn error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case toolResultMsg:
		m.entries = append(m.entries, entry{kind: entryTool, name: msg.Name, body: msg.Result.Text()})
		m.refresh()
		return m, m.listen()

	case turnDoneMsg:
		m.running = false
		m.cancel = nil
		m.err = msg.Err
		if msg.Err != nil {
			m.entries = append(m.entries, entry{kind: entryError, body: msg.Err.Error()})
		} else if reply := lastReply(m.session); reply != "" {
			m.entries = append(m.entries, entry{kind: entryAssistant, body: renderMarkdown(reply, m.styles)})
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 2 // input line + status line
	if !m.ready {
		m.Viewport = viewport.New(msg.Width, msg.Height-inputHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = msg.Height - inputHeight
	}
	m.Input.Width = msg.Width - len(m.Input.Prompt) - 1
	m.refresh()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if m.running && m.cancel != nil {
			m.cancel()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		utterance := strings.TrimSpace(m.Input.Value())
		if utterance == "" {
			return m, nil
		}
		m.Input.Reset()
		return m.startTurn(utterance)

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// startTurn appends the utterance to the session and launches the dispatch
// turn in the background. Tool results stream in over the results channel.
func (m Model) startTurn(utterance string) (Model, tea.Cmd) {
	m.session.Messages = append(m.session.Messages, citydesk.UserMessage{
		Content:   []citydesk.ContentBlock{citydesk.TextBlock{Text: utterance}},
		Timestamp: time.Now(),
	})
	m.entries = append(m.entries, entry{kind: entryUser, body: utterance})
	m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.err = nil
	results := make(chan toolResultMsg, 8)
	m.results = results

	session := m.session
	run := m.run
	turn := func() tea.Msg {
		defer close(results)
		err := run(ctx, session, func(name string, env citydesk.Envelope) {
			results <- toolResultMsg{Name: name, Result: env}
		})
		return turnDoneMsg{Err: err}
	}
	return m, tea.Batch(turn, m.listen(), m.spin.Tick)
}

// listen waits for the next tool result. A closed channel yields a nil
// message, which Bubble Tea discards.
func (m Model) listen() tea.Cmd {
	results := m.results
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return r
	}
}

// lastReply returns the text of the most recent assistant message.
func lastReply(session *citydesk.Session) string {
	for i := len(session.Messages) - 1; i >= 0; i-- {
		if am, ok := session.Messages[i].(citydesk.AssistantMessage); ok {
			return am.Text()
		}
	}
	return ""
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.renderTranscript())
	m.Viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.kind {
		case entryUser:
			b.WriteString(m.styles.UserMsg.Render("you") + " " + e.body)
		case entryAssistant:
			b.WriteString(m.styles.Accent.Render(m.agentName) + " " + e.body)
		case entryTool:
			b.WriteString(m.styles.Tool.Render("⚙ "+e.name) + " " + m.styles.Muted.Render(e.body))
		case entryError:
			b.WriteString(m.styles.Error.Render("error: " + e.body))
		}
	}
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	status := m.styles.Muted.Render("enter to send · esc to quit")
	if m.running {
		status = m.spin.View() + m.styles.Muted.Render(" thinking...")
	}
	return m.Viewport.View() + "\n" + status + "\n" + m.Input.View()
}
