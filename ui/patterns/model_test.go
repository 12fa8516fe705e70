package patterns

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cheerioskun/matchninja/internal/messages"
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func changed(t *testing.T, cmd tea.Cmd) messages.PatternsChangedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.PatternsChangedMsg)
	require.True(t, ok)
	return msg
}

func TestNewModelActivatesFirstValid(t *testing.T) {
	m := NewModel([]string{"(a|b", "ab", "cd"})

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.False(t, entries[0].Valid)
	assert.Equal(t, "unterminated group", entries[0].Error)
	assert.Equal(t, 0, entries[0].ErrOffset)

	require.NotNil(t, m.Active())
	assert.Equal(t, "ab", m.Active().Text())
}

func TestAddEditDelete(t *testing.T) {
	m := NewModel(nil)
	m.Focus()
	assert.Nil(t, m.Active())

	m, _ = m.Update(keys("a"))
	require.True(t, m.IsEditing())
	m, _ = m.Update(keys("x."))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.IsEditing())

	msg := changed(t, cmd)
	assert.Equal(t, []string{"x."}, msg.Patterns)
	require.NotNil(t, msg.Active)
	assert.Equal(t, 2, msg.Active.NumTokens())

	// An invalid edit of the active pattern deactivates it
	m, _ = m.Update(keys("e"))
	m, _ = m.Update(keys("|"))
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg = changed(t, cmd)
	assert.Nil(t, msg.Active)
	assert.Equal(t, []string{"x.|"}, msg.Patterns)

	m, cmd = m.Update(keys("d"))
	msg = changed(t, cmd)
	assert.Empty(t, msg.Patterns)
	assert.Empty(t, m.Entries())
}

func TestEscapeCancelsEdit(t *testing.T) {
	m := NewModel([]string{"ab"})
	m.Focus()

	m, _ = m.Update(keys("a"))
	m, _ = m.Update(keys("zz"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.IsEditing())
	assert.Equal(t, []string{"ab"}, m.Texts())
}

func TestActivateAndDeleteShiftsActive(t *testing.T) {
	m := NewModel([]string{"a", "b", "c"})
	m.Focus()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "c", changed(t, cmd).Active.Text())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown}) // wraps to the top
	m, cmd = m.Update(keys("d"))
	msg := changed(t, cmd)
	assert.Equal(t, []string{"b", "c"}, msg.Patterns)
	assert.Equal(t, "c", msg.Active.Text())
}

func TestReportUpdatesEntry(t *testing.T) {
	m := NewModel([]string{"ab", "cd"})

	report := models.NewReport("cd", []string{"RawText(\"cd\")"}, "/data", models.SplitLines)
	report.FullMatches = 7
	report.BestMatchLength = 1
	m, _ = m.Update(messages.ReportUpdatedMsg{Report: report})

	entries := m.Entries()
	assert.False(t, entries[0].Analysed)
	assert.True(t, entries[1].Analysed)
	assert.Equal(t, int64(7), entries[1].FullMatches)
	assert.Contains(t, m.View(), "(1/1, 7 full)")
}

func TestEditPreviewShowsErrorPosition(t *testing.T) {
	m := NewModel(nil)
	m.Focus()
	m.SetSize(60, 20)

	m, _ = m.Update(keys("a"))
	m, _ = m.Update(keys("ab)"))
	view := m.View()
	assert.Contains(t, view, "Add Pattern")
	assert.Contains(t, view, "')' without matching '('")
}
