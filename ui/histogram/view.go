package histogram

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for histogram rendering
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	fullBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	emptyBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))
)

// renderHistogram renders the main histogram view
func (m *Model) renderHistogram() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Match Depth (tokens matched per candidate)"))
	parts = append(parts, m.renderHistogramBars())
	if m.showSamples {
		parts = append(parts, m.renderSamples())
	}
	parts = append(parts, m.renderStatus(), m.renderHelp())

	return strings.Join(parts, "\n")
}

// renderHistogramBars draws one bar per trace length, full matches last
func (m *Model) renderHistogramBars() string {
	hist := m.report.Histogram
	if m.report.Candidates == 0 {
		return "No candidates in selected files"
	}

	maxValue := m.report.MaxBinCount()

	availableHeight := m.height - 6
	barsToShow := len(hist)
	skipped := 0
	if availableHeight > 0 && barsToShow > availableHeight {
		// Keep the deepest bins, they are the interesting ones
		skipped = barsToShow - availableHeight
	}

	var lines []string
	if skipped > 0 {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("  (%d shallower bins hidden)", skipped)))
	}
	full := len(hist) - 1
	for _, point := range hist[skipped:] {
		barLength := 0
		if maxValue > 0 {
			barLength = int(float64(point.Count) / float64(maxValue) * float64(m.maxBarWidth))
		}
		if point.Count > 0 && barLength == 0 {
			barLength = 1
		}

		label := labelStyle.Render(fmt.Sprintf("%3d", point.Depth))
		bar := m.createBar(barLength, point.Depth == full)
		value := labelStyle.Render(formatNumber(point.Count))
		lines = append(lines, fmt.Sprintf("%s %s %s", label, bar, value))
	}

	return strings.Join(lines, "\n")
}

// createBar creates a single histogram bar
func (m *Model) createBar(length int, full bool) string {
	if length <= 0 {
		return emptyBarStyle.Render("▏")
	}
	bar := strings.Repeat("█", length)
	if full {
		return fullBarStyle.Render(bar)
	}
	return barStyle.Render(bar)
}

func (m *Model) renderSamples() string {
	if len(m.report.Samples) == 0 {
		return labelStyle.Render("No samples")
	}
	lines := []string{titleStyle.Render("Best candidates")}
	for _, s := range m.report.Samples {
		if r := []rune(s); len(r) > m.width-4 && m.width > 8 {
			s = string(r[:m.width-7]) + "..."
		}
		lines = append(lines, labelStyle.Render(s))
	}
	return strings.Join(lines, "\n")
}

// renderStatus renders the status line
func (m *Model) renderStatus() string {
	status := statusStyle.Render(m.status)
	if m.distribution == nil {
		return status
	}

	d := m.distribution
	summary := fmt.Sprintf("Candidates: %s | Full: %s (%.1f%%) | Best: %s | Mean: %.2f",
		formatNumber(d.TotalCandidates), formatNumber(d.FullMatches), m.report.MatchRate()*100, d.Coverage, d.MeanDepth)
	return fmt.Sprintf("%s\n%s", status, statusStyle.Render(summary))
}

// renderHelp renders the help text
func (m *Model) renderHelp() string {
	if !m.focused {
		return ""
	}

	helpParts := []string{"r:rerun"}
	if m.showSamples {
		helpParts = append(helpParts, "s:hide samples")
	} else {
		helpParts = append(helpParts, "s:show samples")
	}
	return helpStyle.Render(strings.Join(helpParts, " | "))
}

// renderLoading renders the loading state
func (m *Model) renderLoading() string {
	title := titleStyle.Render("Match Depth")
	return fmt.Sprintf("%s\n\n%s", title, statusStyle.Render(m.status))
}

// renderError renders the error state
func (m *Model) renderError() string {
	title := titleStyle.Render("Match Depth")
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.error))
	help := helpStyle.Render("Press 'r' to retry")

	return fmt.Sprintf("%s\n\n%s\n%s", title, msg, help)
}

// renderEmpty renders the empty state
func (m *Model) renderEmpty() string {
	title := titleStyle.Render("Match Depth")
	empty := "No report yet"
	help := helpStyle.Render("Activate a pattern and select files to match")

	return fmt.Sprintf("%s\n\n%s\n%s", title, empty, help)
}

// formatNumber formats large numbers with K/M/B suffixes
func formatNumber(num int64) string {
	if num < 1000 {
		return fmt.Sprintf("%d", num)
	}
	if num < 1000000 {
		return fmt.Sprintf("%.1fK", float64(num)/1000)
	}
	if num < 1000000000 {
		return fmt.Sprintf("%.1fM", float64(num)/1000000)
	}
	return fmt.Sprintf("%.1fB", float64(num)/1000000000)
}
