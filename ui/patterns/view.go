package patterns

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styling constants
var (
	// Colors
	primaryColor   = lipgloss.Color("205")
	secondaryColor = lipgloss.Color("240")
	successColor   = lipgloss.Color("46")
	errorColor     = lipgloss.Color("196")
	warningColor   = lipgloss.Color("214")

	// Base styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Padding(0, 1)

	editInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	selectedPatternStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	patternStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

func (m *Model) renderNormalMode() string {
	title := "🎯 Patterns"
	header := headerStyle.Foreground(primaryColor).Render(title)
	if m.focused {
		header = headerStyle.
			Foreground(primaryColor).
			Background(lipgloss.Color("235")).
			Render(title + " *")
	}

	help := ""
	if m.focused {
		helpItems := []string{
			"↑/↓: Navigate",
			"a: Add",
			"e: Edit",
			"Enter: Activate",
			"d: Delete",
		}
		help = helpStyle.Render(strings.Join(helpItems, " • "))
	}

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(help)
	if contentHeight < 1 {
		contentHeight = 1
	}

	content := lipgloss.NewStyle().
		Height(contentHeight).
		Render(m.renderEntries(contentHeight))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, help)
}

func (m *Model) renderEditMode() string {
	title := "Edit Pattern"
	if m.editIndex == -1 {
		title = "Add Pattern"
	}

	header := headerStyle.Foreground(primaryColor).Render(title)
	input := editInputStyle.Render(m.editInput.View())
	preview := m.renderPreview(m.editInput.Value())
	editHelp := helpStyle.Render("Enter: Confirm • Esc: Cancel")

	return lipgloss.JoinVertical(lipgloss.Left, header, input, preview, editHelp)
}

// renderPreview compiles the text being typed and shows its tokens or the
// error position.
func (m *Model) renderPreview(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	e := NewEntry(text)
	if !e.Valid {
		caret := strings.Repeat(" ", len([]rune(text[:e.ErrOffset]))) + "^"
		return lipgloss.NewStyle().Foreground(errorColor).Padding(0, 1).
			Render(fmt.Sprintf("%s\n%s", caret, e.Error))
	}

	var parts []string
	for _, tok := range e.Matcher.Tokens() {
		parts = append(parts, tok.String())
	}
	return lipgloss.NewStyle().Foreground(successColor).Padding(0, 1).Width(m.width - 4).
		Render(strings.Join(parts, " → "))
}

func (m *Model) renderEntries(maxHeight int) string {
	if len(m.entries) == 0 {
		emptyMsg := "No patterns"
		if m.focused {
			emptyMsg += " (press 'a' to add)"
		}
		return lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Render(emptyMsg)
	}

	var lines []string

	visibleStart := 0
	visibleEnd := len(m.entries)
	if maxHeight > 0 && len(m.entries) > maxHeight {
		if m.cursor >= maxHeight {
			visibleStart = m.cursor - maxHeight + 1
		}
		visibleEnd = visibleStart + maxHeight
		if visibleEnd > len(m.entries) {
			visibleEnd = len(m.entries)
			visibleStart = visibleEnd - maxHeight
			if visibleStart < 0 {
				visibleStart = 0
			}
		}
	}

	if visibleStart > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(secondaryColor).Render("↑ ..."))
	}
	for i := visibleStart; i < visibleEnd; i++ {
		lines = append(lines, m.renderEntry(m.entries[i], i, m.focused && i == m.cursor))
	}
	if visibleEnd < len(m.entries) {
		lines = append(lines, lipgloss.NewStyle().Foreground(secondaryColor).Render("↓ ..."))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderEntry(e Entry, index int, isSelected bool) string {
	marker := " "
	if index == m.active {
		marker = "▶"
	}

	var statusIcon string
	var textColor lipgloss.Color
	if e.Valid {
		statusIcon = "✓"
		textColor = successColor
	} else {
		statusIcon = "✗"
		textColor = errorColor
	}

	maxText := m.width - 24
	if maxText < 10 {
		maxText = 10
	}
	text := e.Text
	if r := []rune(text); len(r) > maxText {
		text = string(r[:maxText-3]) + "..."
	}

	info := ""
	switch {
	case !e.Valid:
		info = fmt.Sprintf(" (%s at %d)", e.Error, e.ErrOffset)
	case e.Analysed:
		info = fmt.Sprintf(" (%d/%d, %d full)", e.BestLength, e.Matcher.NumTokens(), e.FullMatches)
		if e.BestLength < e.Matcher.NumTokens() {
			textColor = warningColor
		}
	default:
		info = fmt.Sprintf(" (%d tokens)", e.Matcher.NumTokens())
	}

	content := fmt.Sprintf("%s %s %s%s", marker, statusIcon, text, info)
	if isSelected {
		return selectedPatternStyle.Render(content)
	}
	return patternStyle.Foreground(textColor).Render(content)
}
