package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // user message accent
	Tool    int // tool activity lines
	Error   int // error messages
	Muted   int // status bar, placeholders
	Accent  int // agent name, emphasis
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		Tool:    3,
		Error:   1,
		Muted:   8,
		Accent:  5,
	}
}

// Styles maps a Theme to lipgloss styles for rendering.
type Styles struct {
	UserMsg  lipgloss.Style
	Tool     lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Emphasis lipgloss.Style
	Strong   lipgloss.Style
	Code     lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t Theme) Styles {
	return Styles{
		UserMsg:  lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Tool:     lipgloss.NewStyle().Foreground(ansiColor(t.Tool)),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Emphasis: lipgloss.NewStyle().Italic(true),
		Strong:   lipgloss.NewStyle().Bold(true),
		Code:     lipgloss.NewStyle().Foreground(ansiColor(t.Tool)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
