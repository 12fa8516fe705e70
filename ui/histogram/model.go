package histogram

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cheerioskun/matchninja/internal/analysis"
	"github.com/cheerioskun/matchninja/internal/messages"
	"github.com/cheerioskun/matchninja/internal/models"
)

// Model represents the depth histogram panel state
type Model struct {
	// Data
	report       *models.Report
	distribution *analysis.Distribution
	loading      bool
	lastUpdate   time.Time

	// UI state
	focused bool
	width   int
	height  int

	// Display options
	showSamples bool // Show best candidates under the bars
	maxBarWidth int  // Maximum width for histogram bars

	// Status
	status string
	error  string
}

// NewModel creates a new histogram model
func NewModel() *Model {
	return &Model{
		width:       40,
		height:      20,
		maxBarWidth: 30,
		status:      "Ready",
	}
}

// Update handles messages for the histogram panel
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}

		switch msg.String() {
		case "r":
			return m, func() tea.Msg {
				return messages.RefreshComponentsMsg{Reason: "histogram refresh"}
			}
		case "s":
			m.showSamples = !m.showSamples
			return m, nil
		}

	case messages.AnalysisStartedMsg:
		m.loading = true
		m.status = fmt.Sprintf("Matching %q...", msg.Pattern)
		m.error = ""
		return m, nil

	case messages.ReportUpdatedMsg:
		m.SetReport(msg.Report)
		if msg.NewBest {
			m.status += " • new best!"
		}
		return m, nil

	case messages.AnalysisFailedMsg:
		m.loading = false
		m.error = msg.Err.Error()
		m.status = "Error matching corpus"
		return m, nil

	case messages.PatternsChangedMsg:
		if msg.Active == nil {
			m.SetReport(nil)
			m.status = "No active pattern"
		}
		return m, nil
	}

	return m, nil
}

// View renders the histogram panel
func (m *Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.error != "" {
		return m.renderError()
	}

	if m.report == nil {
		return m.renderEmpty()
	}

	return m.renderHistogram()
}

// Component interface methods

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Leave space for labels and borders
	m.maxBarWidth = width - 20
	if m.maxBarWidth < 10 {
		m.maxBarWidth = 10
	}
}

// Data management methods

// SetReport replaces the displayed report. nil clears the panel.
func (m *Model) SetReport(report *models.Report) {
	m.report = report
	m.loading = false
	m.error = ""
	if report == nil {
		m.distribution = nil
		return
	}
	m.distribution = analysis.Summarize(report)
	m.lastUpdate = time.Now()
	m.status = fmt.Sprintf("Updated at %s in %s", m.lastUpdate.Format("15:04:05"), report.Duration.Round(time.Millisecond))
}

func (m *Model) Report() *models.Report {
	return m.report
}
