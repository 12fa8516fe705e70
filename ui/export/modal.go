package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/matchninja/internal/export"
	"github.com/cheerioskun/matchninja/internal/models"
)

// Styling
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Align(lipgloss.Center)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Margin(1, 0)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Margin(1, 0)

	formatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	activeFormatStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Align(lipgloss.Center).
			Margin(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Margin(1, 0)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true).
			Margin(1, 0)
)

// State represents the modal's current state
type State int

const (
	StateInput State = iota
	StateExporting
	StateSuccess
	StateError
)

// Model represents the export modal
type Model struct {
	// UI components
	textInput textinput.Model

	// State
	state   State
	visible bool
	width   int
	height  int
	format  int // Index into export.Formats

	// Data
	report         *models.Report
	exportService  *export.Service
	exportSummary  *export.ExportSummary
	errorMessage   string
	successMessage string
}

// ExportModalCancelledMsg is sent when user cancels export
type ExportModalCancelledMsg struct{}

// ExportModalCompletedMsg is sent when export operation completes
type ExportModalCompletedMsg struct {
	Success bool
	Error   error
	Summary *export.ExportSummary
}

// NewModel creates a new export modal
func NewModel(exportService *export.Service) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter export destination..."
	ti.CharLimit = 256
	ti.Width = 50

	return &Model{
		textInput:     ti,
		state:         StateInput,
		exportService: exportService,
	}
}

// Show displays the modal for report
func (m *Model) Show(report *models.Report) {
	m.visible = true
	m.state = StateInput
	m.report = report
	m.errorMessage = ""
	m.successMessage = ""
	m.exportSummary = nil

	m.resetPath()
	m.textInput.Focus()
}

// Hide hides the modal
func (m *Model) Hide() {
	m.visible = false
	m.textInput.Blur()
	m.state = StateInput
}

// IsVisible returns true if the modal is visible
func (m *Model) IsVisible() bool {
	return m.visible
}

// SetSize sets the modal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Format returns the selected export format
func (m *Model) Format() export.Format {
	return export.Formats[m.format]
}

// Update handles messages for the export modal
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateInput:
			switch msg.String() {
			case "enter":
				return m.confirmExport()
			case "esc":
				m.Hide()
				return m, func() tea.Msg { return ExportModalCancelledMsg{} }
			case "tab":
				m.format = (m.format + 1) % len(export.Formats)
				m.resetPath()
				return m, nil
			case "shift+tab":
				m.format = (m.format - 1 + len(export.Formats)) % len(export.Formats)
				m.resetPath()
				return m, nil
			default:
				m.textInput, cmd = m.textInput.Update(msg)
				return m, cmd
			}
		case StateExporting:
			// Don't handle input while exporting
			return m, nil
		case StateSuccess, StateError:
			// Any key closes the modal after success/error
			wasSuccess := m.state == StateSuccess
			summary := m.exportSummary
			m.Hide()
			if wasSuccess {
				return m, func() tea.Msg {
					return ExportModalCompletedMsg{Success: true, Summary: summary}
				}
			}
			return m, func() tea.Msg { return ExportModalCancelledMsg{} }
		}

	case exportDoneMsg:
		if msg.err != nil {
			m.state = StateError
			m.errorMessage = fmt.Sprintf("Export failed: %v", msg.err)
			return m, nil
		}
		m.state = StateSuccess
		m.exportSummary = msg.summary
		m.successMessage = fmt.Sprintf("Exported %s report (%d bytes) to %s",
			msg.summary.Format, msg.summary.Bytes, msg.summary.DestinationPath)
		return m, nil

	default:
		if m.state == StateInput {
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the export modal
func (m *Model) View() string {
	if !m.visible {
		return ""
	}

	var content string
	switch m.state {
	case StateInput:
		content = m.renderInputState()
	case StateExporting:
		content = m.renderExportingState()
	case StateSuccess:
		content = m.renderSuccessState()
	case StateError:
		content = m.renderErrorState()
	}

	styledContent := modalStyle.
		Width(60).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styledContent)
}

// renderInputState renders the input state of the modal
func (m *Model) renderInputState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Export Report"))

	if m.report != nil {
		preview := fmt.Sprintf("Pattern: %s\nCandidates: %d • Full matches: %d • Best: %d/%d",
			m.report.Pattern, m.report.Candidates, m.report.FullMatches,
			m.report.BestMatchLength, len(m.report.Tokens))
		parts = append(parts, previewStyle.Render(preview))
	}

	var formats []string
	for i, f := range export.Formats {
		if i == m.format {
			formats = append(formats, activeFormatStyle.Render(string(f)))
		} else {
			formats = append(formats, formatStyle.Render(string(f)))
		}
	}
	parts = append(parts, "Format: "+strings.Join(formats, "  "))

	parts = append(parts, "Destination Path:")
	parts = append(parts, inputStyle.Render(m.textInput.View()))

	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}

	parts = append(parts, helpStyle.Render("Enter: Export • Tab: Format • Esc: Cancel"))

	return strings.Join(parts, "\n")
}

// renderExportingState renders the exporting state
func (m *Model) renderExportingState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Exporting..."))
	parts = append(parts, previewStyle.Render("Writing report..."))

	return strings.Join(parts, "\n")
}

// renderSuccessState renders the success state
func (m *Model) renderSuccessState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Export Complete"))
	parts = append(parts, successStyle.Render(m.successMessage))
	parts = append(parts, helpStyle.Render("Press any key to close"))

	return strings.Join(parts, "\n")
}

// renderErrorState renders the error state
func (m *Model) renderErrorState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Export Failed"))
	parts = append(parts, errorStyle.Render(m.errorMessage))
	parts = append(parts, helpStyle.Render("Press any key to close"))

	return strings.Join(parts, "\n")
}

func (m *Model) resetPath() {
	source := ""
	if m.report != nil {
		source = m.report.Source
	}
	path, err := export.DefaultExportPath(source, m.Format())
	if err != nil {
		path = "./report" + m.Format().Extension()
	}
	m.textInput.SetValue(path)
	m.textInput.CursorEnd()
}

// confirmExport starts the export process
func (m *Model) confirmExport() (*Model, tea.Cmd) {
	destPath := strings.TrimSpace(m.textInput.Value())

	if err := export.ValidateExportPath(destPath); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	if m.report == nil {
		m.errorMessage = "No report to export yet"
		return m, nil
	}

	m.errorMessage = ""
	m.state = StateExporting
	return m, m.performExport(destPath)
}

// exportDoneMsg carries the result of performExport back to the modal
type exportDoneMsg struct {
	summary *export.ExportSummary
	err     error
}

// performExport writes the report off the UI goroutine
func (m *Model) performExport(destPath string) tea.Cmd {
	report := m.report.Clone()
	format := m.Format()
	service := m.exportService
	return func() tea.Msg {
		summary, err := service.ExportReport(report, export.ExportOptions{
			DestinationPath: destPath,
			Format:          format,
			Overwrite:       true,
		})
		return exportDoneMsg{summary: summary, err: err}
	}
}
