package filelist

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/matchninja/internal/messages"
	"github.com/cheerioskun/matchninja/internal/models"
)

// Model lists corpus files largest first with their selection state and
// per-file match results
type Model struct {
	// Data
	session *models.Session
	files   []models.SourceFile
	results map[string]models.FileResult

	// UI state
	cursor   int
	focused  bool
	width    int
	height   int
	viewport viewport.Model

	// Styles
	titleStyle    lipgloss.Style
	fileStyle     lipgloss.Style
	cursorStyle   lipgloss.Style
	deselectStyle lipgloss.Style
	sizeStyle     lipgloss.Style
	emptyStyle    lipgloss.Style
}

// NewModel creates a file list over session
func NewModel(session *models.Session) *Model {
	vp := viewport.New(40, 6) // Initial size, will be updated in SetSize
	vp.SetContent("")

	m := &Model{
		session:  session,
		results:  make(map[string]models.FileResult),
		width:    40,
		height:   10,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Margin(0, 0, 1, 0),

		fileStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")),

		cursorStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")),

		deselectStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		sizeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Align(lipgloss.Right),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
	m.reload()
	return m
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case messages.ReportUpdatedMsg:
		m.results = make(map[string]models.FileResult)
		if msg.Report != nil {
			for _, r := range msg.Report.Files {
				m.results[r.Path] = r
			}
		}
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			m.moveCursor(1)
		case "k", "up":
			m.moveCursor(-1)
		case "pgdown":
			m.moveCursor(m.viewport.Height)
		case "pgup":
			m.moveCursor(-m.viewport.Height)
		case "home", "g":
			m.moveCursor(-len(m.files))
		case "end", "G":
			m.moveCursor(len(m.files))
		case " ", "enter":
			return m, m.toggleAtCursor()
		case "A":
			m.session.SelectAllFiles()
			return m, m.selectionChanged()
		case "T":
			m.session.SelectTextFiles()
			return m, m.selectionChanged()
		case "N":
			m.session.SelectNone()
			return m, m.selectionChanged()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the component
func (m *Model) View() string {
	title := "📁 Files (by Size)"
	if m.focused {
		title += " *"
	}
	header := m.titleStyle.Render(title)

	var content string
	if len(m.files) == 0 {
		content = m.emptyStyle.Render("No files in corpus")
	} else {
		content = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderSummary())
}

func (m *Model) reload() {
	m.files = nil
	if m.session != nil && m.session.Corpus != nil {
		m.files = append(m.files, m.session.Corpus.Files...)
		sort.SliceStable(m.files, func(i, j int) bool { return m.files[i].Size > m.files[j].Size })
	}
	m.updateViewportContent()
}

func (m *Model) moveCursor(delta int) {
	if len(m.files) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.files) {
		m.cursor = len(m.files) - 1
	}

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
	m.updateViewportContent()
}

func (m *Model) toggleAtCursor() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return nil
	}
	m.session.ToggleFileSelection(m.files[m.cursor].Path)
	return m.selectionChanged()
}

func (m *Model) selectionChanged() tea.Cmd {
	m.updateViewportContent()
	count := m.session.GetSelectedFileCount()
	size := m.session.GetSelectedTotalSize()
	return func() tea.Msg {
		return messages.SelectionChangedMsg{SelectedCount: count, TotalSize: size}
	}
}

// updateViewportContent updates the viewport with the current file list content
func (m *Model) updateViewportContent() {
	if len(m.files) == 0 {
		m.viewport.SetContent(m.emptyStyle.Render("No files to display"))
		return
	}

	var totalSize int64
	for _, f := range m.files {
		totalSize += f.Size
	}

	maxFilenameWidth := m.width - 34
	if maxFilenameWidth < 10 {
		maxFilenameWidth = 10
	}

	var lines []string
	for i, file := range m.files {
		filename := filepath.Base(file.Path)
		if len(filename) > maxFilenameWidth {
			filename = filename[:maxFilenameWidth-3] + "..."
		}

		marker := "□"
		selected := m.session.IsFileSelected(file.Path)
		if selected {
			marker = "☑"
		}

		result := ""
		if r, ok := m.results[file.Path]; ok {
			result = fmt.Sprintf("%d/%d", r.FullMatches, r.Candidates)
		}

		percentage := 0.0
		if totalSize > 0 {
			percentage = float64(file.Size) / float64(totalSize) * 100
		}

		line := fmt.Sprintf("%s %-*s %8s %5.1f%% %s",
			marker, maxFilenameWidth, filename, formatBytes(file.Size), percentage, result)

		switch {
		case m.focused && i == m.cursor:
			line = m.cursorStyle.Render(line)
		case !selected:
			line = m.deselectStyle.Render(line)
		default:
			line = m.fileStyle.Render(line)
		}
		lines = append(lines, line)
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// renderSummary renders the summary information
func (m *Model) renderSummary() string {
	if len(m.files) == 0 {
		return ""
	}

	summary := fmt.Sprintf("Selected: %d/%d • %s • %d/%d",
		m.session.GetSelectedFileCount(), len(m.files),
		formatBytes(m.session.GetSelectedTotalSize()),
		m.cursor+1, len(m.files))
	if m.focused {
		summary += " • space:toggle A:all T:text N:none"
	}
	return m.sizeStyle.Render(summary)
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
	m.updateViewportContent()
}

func (m *Model) Blur() {
	m.focused = false
	m.updateViewportContent()
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Account for title (2 lines), summary (1 line), and some padding
	viewportHeight := height - 4
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	m.viewport.Width = width
	m.viewport.Height = viewportHeight
	m.updateViewportContent()
}

// formatBytes formats byte counts in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
