// Package trace is the live match panel: type a candidate and see how far
// the active pattern gets through it.
package trace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/matchninja/internal/messages"
	"github.com/cheerioskun/matchninja/internal/pattern"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	matchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	restStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tokenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// Model holds the candidate input and the trace of the last keystroke
type Model struct {
	input   textinput.Model
	matcher *pattern.Matcher
	trace   pattern.Trace

	focused bool
	width   int
	height  int
}

// NewModel creates an empty trace panel
func NewModel() *Model {
	input := textinput.New()
	input.Placeholder = "Type a candidate..."
	input.CharLimit = 1024

	return &Model{
		input:  input,
		width:  40,
		height: 10,
	}
}

// Update handles messages for the trace panel
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PatternsChangedMsg:
		m.SetMatcher(msg.Active)
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if msg.String() == "ctrl+u" {
			m.input.SetValue("")
			m.rematch()
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.rematch()
	}
	return m, cmd
}

// SetMatcher switches the active pattern and re-runs the current candidate
func (m *Model) SetMatcher(matcher *pattern.Matcher) {
	m.matcher = matcher
	m.rematch()
}

// Trace returns the trace of the current candidate
func (m *Model) Trace() pattern.Trace {
	return m.trace
}

func (m *Model) rematch() {
	if m.matcher == nil {
		m.trace = nil
		return
	}
	m.trace = m.matcher.Match(m.input.Value())
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
	m.input.Focus()
}

func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
}

// View renders the trace panel
func (m *Model) View() string {
	title := "🧪 Live Trace"
	if m.focused {
		title += " *"
	}
	parts := []string{titleStyle.Render(title), m.input.View()}

	if m.matcher == nil {
		parts = append(parts, helpStyle.Render("No active pattern"))
		return strings.Join(parts, "\n")
	}

	candidate := m.input.Value()
	end := m.trace.End()
	parts = append(parts, matchedStyle.Render(candidate[:end])+restStyle.Render(candidate[end:]))

	budget := m.height - 6
	if budget < 1 {
		budget = 1
	}
	tokens := m.matcher.Tokens()
	for i := range tokens {
		if i >= budget {
			parts = append(parts, restStyle.Render(fmt.Sprintf("... %d more tokens", len(tokens)-i)))
			break
		}
		if i < len(m.trace) {
			parts = append(parts, fmt.Sprintf("✓ %s %q", tokenStyle.Render(tokens[i].String()), m.trace[i].Matched))
		} else if i == len(m.trace) {
			parts = append(parts, missStyle.Render("✗ "+tokens[i].String()))
		} else {
			parts = append(parts, restStyle.Render("  "+tokens[i].String()))
		}
	}

	parts = append(parts, fmt.Sprintf("matched %d/%d • best %d", len(m.trace), m.matcher.NumTokens(), m.matcher.BestMatchLength()))
	if m.focused {
		parts = append(parts, helpStyle.Render("ctrl+u: clear"))
	}
	return strings.Join(parts, "\n")
}
