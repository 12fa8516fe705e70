package patterns

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cheerioskun/matchninja/internal/messages"
	"github.com/cheerioskun/matchninja/internal/pattern"
)

// Model is the pattern list panel. One valid pattern at a time is active
// and drives the corpus analysis.
type Model struct {
	// Data
	entries []Entry
	active  int // Index of the active entry, -1 if none

	// UI State
	cursor    int
	editMode  bool
	editInput textinput.Model
	editIndex int // Index of entry being edited (-1 for new entry)

	// Component state
	focused bool
	width   int
	height  int
}

// NewModel creates a pattern panel seeded with initial patterns. The first
// valid one becomes active.
func NewModel(initial []string) *Model {
	input := textinput.New()
	input.Placeholder = "Enter pattern, e.g. abc(d|e|f)."
	input.CharLimit = 256

	m := &Model{
		entries:   make([]Entry, 0, len(initial)),
		active:    -1,
		editInput: input,
		editIndex: -1,
		width:     40,
		height:    20,
	}
	for _, text := range initial {
		m.entries = append(m.entries, NewEntry(text))
		if m.active < 0 && m.entries[len(m.entries)-1].Valid {
			m.active = len(m.entries) - 1
		}
	}
	return m
}

// Update handles messages for the pattern panel
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd

	if report, ok := msg.(messages.ReportUpdatedMsg); ok {
		m.applyReport(report)
		return m, nil
	}

	if m.editMode {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "enter":
				return m.confirmEdit()
			case "esc":
				return m.cancelEdit(), nil
			}
		}
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			m.moveCursorUp()
		case "down", "j":
			m.moveCursorDown()
		case "a":
			m.startAddPattern()
		case "e":
			if m.hasEntryAtCursor() {
				m.startEditPattern()
			}
		case "d", "delete":
			return m, m.deletePattern()
		case "enter", " ":
			if !m.hasEntryAtCursor() {
				m.startAddPattern()
				return m, nil
			}
			return m, m.activate(m.cursor)
		}
	}

	return m, cmd
}

// View renders the pattern panel
func (m *Model) View() string {
	if m.editMode {
		return m.renderEditMode()
	}
	return m.renderNormalMode()
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
	if m.editMode {
		m.cancelEdit()
	}
}

func (m *Model) IsFocused() bool {
	return m.focused
}

// IsEditing reports whether key presses are going to the text input
func (m *Model) IsEditing() bool {
	return m.editMode
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.editInput.Width = width - 6
}

// Data access

// Entries returns the entries in display order
func (m *Model) Entries() []Entry {
	return m.entries
}

// Texts returns every pattern source in order
func (m *Model) Texts() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Text
	}
	return out
}

// Active returns the active matcher or nil
func (m *Model) Active() *pattern.Matcher {
	if m.active < 0 || m.active >= len(m.entries) {
		return nil
	}
	return m.entries[m.active].Matcher
}

// ChangedCmd announces the current pattern state
func (m *Model) ChangedCmd() tea.Cmd {
	patterns := m.Texts()
	active := m.Active()
	return func() tea.Msg {
		return messages.PatternsChangedMsg{
			Patterns:        patterns,
			Active:          active,
			SourceComponent: "patterns_panel",
		}
	}
}

// Internal methods

func (m *Model) applyReport(msg messages.ReportUpdatedMsg) {
	if msg.Report == nil {
		return
	}
	for i := range m.entries {
		if m.entries[i].Text == msg.Report.Pattern {
			m.entries[i].Analysed = true
			m.entries[i].FullMatches = msg.Report.FullMatches
			m.entries[i].BestLength = msg.Report.BestMatchLength
		}
	}
}

func (m *Model) hasEntryAtCursor() bool {
	return m.cursor >= 0 && m.cursor < len(m.entries)
}

func (m *Model) moveCursorUp() {
	if m.cursor > 0 {
		m.cursor--
	} else if len(m.entries) > 0 {
		m.cursor = len(m.entries) - 1
	}
}

func (m *Model) moveCursorDown() {
	if len(m.entries) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < len(m.entries)-1 {
		m.cursor++
	} else {
		m.cursor = 0
	}
}

func (m *Model) startAddPattern() {
	m.editMode = true
	m.editIndex = -1
	m.editInput.SetValue("")
	m.editInput.Focus()
}

func (m *Model) startEditPattern() {
	m.editMode = true
	m.editIndex = m.cursor
	m.editInput.SetValue(m.entries[m.cursor].Text)
	m.editInput.CursorEnd()
	m.editInput.Focus()
}

func (m *Model) confirmEdit() (*Model, tea.Cmd) {
	value := strings.TrimSpace(m.editInput.Value())
	if value == "" {
		return m.cancelEdit(), nil
	}

	entry := NewEntry(value)
	index := m.editIndex
	if index == -1 {
		m.entries = append(m.entries, entry)
		index = len(m.entries) - 1
	} else {
		m.entries[index] = entry
	}
	m.cursor = index
	m.cancelEdit()

	// A new or edited valid pattern becomes active straight away
	if entry.Valid {
		return m, m.activate(index)
	}
	if index == m.active {
		m.active = -1
	}
	return m, m.ChangedCmd()
}

func (m *Model) cancelEdit() *Model {
	m.editMode = false
	m.editIndex = -1
	m.editInput.Blur()
	m.editInput.SetValue("")
	return m
}

func (m *Model) activate(index int) tea.Cmd {
	if index < 0 || index >= len(m.entries) || !m.entries[index].Valid {
		return nil
	}
	m.active = index
	return m.ChangedCmd()
}

func (m *Model) deletePattern() tea.Cmd {
	if !m.hasEntryAtCursor() {
		return nil
	}

	removed := m.cursor
	m.entries = append(m.entries[:removed], m.entries[removed+1:]...)

	switch {
	case removed == m.active:
		m.active = -1
	case removed < m.active:
		m.active--
	}

	if m.cursor >= len(m.entries) && len(m.entries) > 0 {
		m.cursor = len(m.entries) - 1
	} else if len(m.entries) == 0 {
		m.cursor = 0
	}

	return m.ChangedCmd()
}
