package messages

import (
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/pattern"
)

// PatternsChangedMsg is sent when the pattern list or the active pattern changes
type PatternsChangedMsg struct {
	Patterns        []string         // Complete ordered list of pattern sources
	Active          *pattern.Matcher // Compiled active pattern, nil if none or invalid
	SourceComponent string           // Which component sent this
}

// AnalysisStartedMsg is sent when a corpus analysis begins
type AnalysisStartedMsg struct {
	Pattern string
}

// ReportUpdatedMsg is sent when an analysis has finished
type ReportUpdatedMsg struct {
	Report  *models.Report
	Matcher *pattern.Matcher
	NewBest bool // Best match length beat every recorded run
}

// AnalysisFailedMsg is sent when an analysis could not complete
type AnalysisFailedMsg struct {
	Pattern string
	Err     error
}

// SelectionChangedMsg is sent when files are selected or deselected
type SelectionChangedMsg struct {
	SelectedCount int
	TotalSize     int64
}

// RefreshComponentsMsg is sent to trigger component refreshes
type RefreshComponentsMsg struct {
	Reason string // Why the refresh was triggered
}
