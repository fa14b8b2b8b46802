// Package tui provides a Bubble Tea chat front-end for the citydesk agent.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/citydesk/citydesk"
)

// AgentFunc runs one dispatch turn over the session. onResult is called for
// every tool dispatch with the tool name and its envelope. The function
// blocks until the turn completes or the context is cancelled.
type AgentFunc func(ctx context.Context, session *citydesk.Session, onResult func(name string, env citydesk.Envelope)) error

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. When the context is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// toolResultMsg delivers one tool dispatch outcome to the model.
type toolResultMsg struct {
	Name   string
	Result citydesk.Envelope
}

// turnDoneMsg signals that the dispatch turn has completed.
type turnDoneMsg struct {
	Err error
}
