package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/matchninja/internal/analysis"
	"github.com/cheerioskun/matchninja/internal/export"
	"github.com/cheerioskun/matchninja/internal/history"
	"github.com/cheerioskun/matchninja/internal/messages"
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/pattern"
	"github.com/cheerioskun/matchninja/internal/utils"
	exportui "github.com/cheerioskun/matchninja/ui/export"
	"github.com/cheerioskun/matchninja/ui/filelist"
	"github.com/cheerioskun/matchninja/ui/histogram"
	"github.com/cheerioskun/matchninja/ui/patterns"
	"github.com/cheerioskun/matchninja/ui/trace"
	"github.com/spf13/afero"
)

// FocusedPanel represents which panel is currently focused
type FocusedPanel int

const (
	PatternsPanel FocusedPanel = iota
	TracePanel
	HistogramPanel
	FilesPanel
)

// Options configures the application
type Options struct {
	Analysis analysis.Options
	Patterns []string       // Patterns loaded at start, the first valid one is active
	History  *history.Store // Records every analysis when non-nil
}

// AppModel represents the main application model
type AppModel struct {
	// Core state
	session  *models.Session
	analyzer *analysis.Analyzer
	opts     Options

	// Components
	patterns    *patterns.Model
	trace       *trace.Model
	histogram   *histogram.Model
	files       *filelist.Model
	exportModal *exportui.Model

	// UI state
	focused      FocusedPanel
	width        int
	height       int
	panels       []FocusedPanel
	currentPanel int

	// Analysis in flight
	cancel     context.CancelFunc
	generation int

	// Status
	status   string
	ready    bool
	quitting bool
}

// analysisDoneMsg carries a finished analysis. Results from a superseded
// generation are dropped.
type analysisDoneMsg struct {
	generation int
	report     *models.Report
	matcher    *pattern.Matcher
	newBest    bool
	err        error
}

// NewAppModel creates a new application model
func NewAppModel(session *models.Session, fs afero.Fs, opts Options) *AppModel {
	if session == nil {
		session = models.NewSession(nil)
	}
	initial := append(append([]string{}, session.Patterns...), opts.Patterns...)

	m := &AppModel{
		session:      session,
		analyzer:     analysis.NewAnalyzer(fs),
		opts:         opts,
		patterns:     patterns.NewModel(initial),
		trace:        trace.NewModel(),
		histogram:    histogram.NewModel(),
		files:        filelist.NewModel(session),
		exportModal:  exportui.NewModel(export.NewService(fs)),
		width:        80,
		height:       24,
		panels:       []FocusedPanel{PatternsPanel, TracePanel, HistogramPanel, FilesPanel},
		currentPanel: 0,
		status:       "Ready",
		ready:        true,
	}
	m.setFocus(0)
	return m
}

// Init implements tea.Model
func (m *AppModel) Init() tea.Cmd {
	return m.patterns.ChangedCmd()
}

// Update implements tea.Model
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "ctrl+c" {
			return m.quit()
		}
		if m.exportModal.IsVisible() {
			var cmd tea.Cmd
			m.exportModal, cmd = m.exportModal.Update(msg)
			return m, cmd
		}
		return m.handleKey(key)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case messages.PatternsChangedMsg:
		m.session.Patterns = msg.Patterns
		m.trace, _ = m.trace.Update(msg)
		m.histogram, _ = m.histogram.Update(msg)
		if msg.Active == nil {
			m.cancelAnalysis()
			m.status = "No active pattern"
			return m, nil
		}
		return m, m.startAnalysis("pattern changed")

	case messages.SelectionChangedMsg:
		m.status = fmt.Sprintf("%d files selected (%s)", msg.SelectedCount, formatBytes(msg.TotalSize))
		return m, m.startAnalysis("selection changed")

	case messages.RefreshComponentsMsg:
		return m, m.startAnalysis(msg.Reason)

	case messages.AnalysisStartedMsg:
		m.histogram, _ = m.histogram.Update(msg)
		return m, nil

	case analysisDoneMsg:
		return m.finishAnalysis(msg)

	case exportui.ExportModalCompletedMsg:
		if msg.Success && msg.Summary != nil {
			m.status = fmt.Sprintf("Exported to %s", msg.Summary.DestinationPath)
		}
		return m, nil

	case exportui.ExportModalCancelledMsg:
		m.status = "Export cancelled"
		return m, nil
	}

	// Anything else belongs to whichever component is waiting for it
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.exportModal.IsVisible() {
		m.exportModal, cmd = m.exportModal.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.patterns, cmd = m.patterns.Update(msg)
	cmds = append(cmds, cmd)
	m.trace, cmd = m.trace.Update(msg)
	cmds = append(cmds, cmd)
	m.files, cmd = m.files.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text inputs own every key except panel navigation
	capturing := m.patterns.IsEditing() || m.focused == TracePanel

	switch msg.String() {
	case "tab":
		if !m.patterns.IsEditing() {
			m.nextPanel()
			return m, nil
		}
	case "shift+tab":
		if !m.patterns.IsEditing() {
			m.prevPanel()
			return m, nil
		}
	case "q":
		if !capturing {
			return m.quit()
		}
	case "x":
		if !capturing {
			if m.session.Report == nil {
				m.status = "Nothing to export yet"
				return m, nil
			}
			m.exportModal.Show(m.session.Report)
			return m, nil
		}
	case "?":
		if !capturing {
			m.status = "Tab/Shift+Tab: panels | x: export report | q: quit"
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focused {
	case PatternsPanel:
		m.patterns, cmd = m.patterns.Update(msg)
	case TracePanel:
		m.trace, cmd = m.trace.Update(msg)
	case HistogramPanel:
		m.histogram, cmd = m.histogram.Update(msg)
	case FilesPanel:
		m.files, cmd = m.files.Update(msg)
	}
	return m, cmd
}

// startAnalysis cancels any running analysis and matches the active pattern
// over the selected files in the background.
func (m *AppModel) startAnalysis(reason string) tea.Cmd {
	active := m.patterns.Active()
	if active == nil || m.session.Corpus == nil {
		return nil
	}

	m.cancelAnalysis()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.generation++
	generation := m.generation

	m.session.ApplySelection()
	corpus := m.session.Corpus
	analyzer := m.analyzer
	opts := m.opts.Analysis
	store := m.opts.History
	// A fresh matcher keeps the live trace panel's best length separate
	// from the corpus result.
	matcher := pattern.MustCompile(active.Text())

	utils.Debug("starting analysis %d of %q: %s", generation, matcher.Text(), reason)

	started := func() tea.Msg { return messages.AnalysisStartedMsg{Pattern: matcher.Text()} }
	run := func() tea.Msg {
		report, err := analyzer.Analyze(ctx, matcher, corpus, opts)
		done := analysisDoneMsg{generation: generation, report: report, matcher: matcher, err: err}
		if err != nil || store == nil {
			return done
		}

		previous, err := store.Best(ctx, report.Pattern)
		if err != nil {
			utils.Warning("history lookup failed: %v", err)
			return done
		}
		if _, err := store.Record(ctx, report); err != nil {
			utils.Warning("history record failed: %v", err)
			return done
		}
		done.newBest = previous != nil && report.BestMatchLength > previous.BestMatchLength
		return done
	}
	return tea.Batch(started, run)
}

func (m *AppModel) cancelAnalysis() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *AppModel) finishAnalysis(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation {
		return m, nil
	}
	m.cancel = nil

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.status = "Analysis failed"
		utils.Error("analysis failed: %v", msg.err)
		failed := messages.AnalysisFailedMsg{Pattern: msg.matcher.Text(), Err: msg.err}
		m.histogram, _ = m.histogram.Update(failed)
		return m, nil
	}

	m.session.SetReport(msg.report)
	m.status = fmt.Sprintf("%q: %d/%d candidates matched fully, best %d/%d tokens",
		msg.report.Pattern, msg.report.FullMatches, msg.report.Candidates,
		msg.report.BestMatchLength, msg.matcher.NumTokens())
	if msg.newBest {
		m.status += " (new best)"
	}

	updated := messages.ReportUpdatedMsg{Report: msg.report, Matcher: msg.matcher, NewBest: msg.newBest}
	m.patterns, _ = m.patterns.Update(updated)
	m.histogram, _ = m.histogram.Update(updated)
	m.files, _ = m.files.Update(updated)
	return m, nil
}

func (m *AppModel) quit() (tea.Model, tea.Cmd) {
	m.cancelAnalysis()
	m.quitting = true
	return m, tea.Quit
}

// View implements tea.Model
func (m *AppModel) View() string {
	if m.quitting {
		return "Thanks for using MatchNinja!\n"
	}

	if !m.ready {
		return "Loading...\n"
	}

	if m.exportModal.IsVisible() {
		return m.exportModal.View()
	}

	return m.renderLayout()
}

// Layout

const (
	headerHeight = 3
	statusHeight = 3
)

func (m *AppModel) panelSizes() (leftWidth, rightWidth, topHeight, bottomHeight int) {
	contentHeight := m.height - headerHeight - statusHeight
	leftWidth = m.width / 2
	rightWidth = m.width - leftWidth
	topHeight = contentHeight / 2
	bottomHeight = contentHeight - topHeight
	return
}

func (m *AppModel) resize() {
	leftWidth, rightWidth, topHeight, bottomHeight := m.panelSizes()
	// Borders and padding take two rows and four columns
	m.patterns.SetSize(leftWidth-4, topHeight-2)
	m.trace.SetSize(rightWidth-4, topHeight-2)
	m.histogram.SetSize(leftWidth-4, bottomHeight-2)
	m.files.SetSize(rightWidth-4, bottomHeight-2)
	m.exportModal.SetSize(m.width, m.height)
}

// renderLayout creates the main application layout
func (m *AppModel) renderLayout() string {
	leftWidth, rightWidth, topHeight, bottomHeight := m.panelSizes()

	header := m.renderHeader()

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPanel(PatternsPanel, m.patterns.View(), leftWidth, topHeight),
		m.renderPanel(TracePanel, m.trace.View(), rightWidth, topHeight))
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPanel(HistogramPanel, m.histogram.View(), leftWidth, bottomHeight),
		m.renderPanel(FilesPanel, m.files.View(), rightWidth, bottomHeight))
	content := lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow)

	status := m.renderStatusPanel(m.width, statusHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

// renderHeader creates the application header
func (m *AppModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Render("MatchNinja - Pattern Match Explorer")

	source := "(no corpus, live trace only)"
	if m.session.Corpus != nil {
		source = m.session.Corpus.Path
	}
	path := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(fmt.Sprintf("Corpus: %s • Split: %s", source, m.opts.Analysis.Split))

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render("Tab: Navigate | x: Export | ?: Help | q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, path, help)
}

func (m *AppModel) renderPanel(panel FocusedPanel, content string, width, height int) string {
	return m.getPanelStyle(panel, width, height).Render(content)
}

// renderStatusPanel renders the status panel
func (m *AppModel) renderStatusPanel(width, height int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(width-2).
		Height(height-2).
		Padding(0, 1)

	var statusParts []string
	if m.session.Corpus != nil {
		statusParts = append(statusParts,
			fmt.Sprintf("Files: %d/%d selected", m.session.GetSelectedFileCount(), len(m.session.Corpus.Files)),
			fmt.Sprintf("Size: %s", formatBytes(m.session.GetSelectedTotalSize())),
		)
	}
	if active := m.patterns.Active(); active != nil {
		statusParts = append(statusParts, fmt.Sprintf("Pattern: %s", active.Text()))
	}
	statusParts = append(statusParts, fmt.Sprintf("Status: %s", m.status))

	return style.Render(strings.Join(statusParts, " | "))
}

// Helper methods

func (m *AppModel) getPanelStyle(panel FocusedPanel, width, height int) lipgloss.Style {
	borderColor := lipgloss.Color("240")
	if panel == m.focused {
		borderColor = lipgloss.Color("205")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width-2).
		Height(height-2).
		Padding(0, 1)
}

func (m *AppModel) setFocus(index int) {
	m.currentPanel = index
	m.focused = m.panels[index]

	m.patterns.Blur()
	m.trace.Blur()
	m.histogram.Blur()
	m.files.Blur()

	switch m.focused {
	case PatternsPanel:
		m.patterns.Focus()
	case TracePanel:
		m.trace.Focus()
	case HistogramPanel:
		m.histogram.Focus()
	case FilesPanel:
		m.files.Focus()
	}
}

func (m *AppModel) nextPanel() {
	m.setFocus((m.currentPanel + 1) % len(m.panels))
}

func (m *AppModel) prevPanel() {
	m.setFocus((m.currentPanel - 1 + len(m.panels)) % len(m.panels))
}

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
