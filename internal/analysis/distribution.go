package analysis

import (
	"fmt"

	"github.com/cheerioskun/matchninja/internal/models"
)

// Distribution summarises a depth histogram
type Distribution struct {
	TotalCandidates int64   `json:"total_candidates"`
	FullMatches     int64   `json:"full_matches"`
	MeanDepth       float64 `json:"mean_depth"`
	PeakDepth       int     `json:"peak_depth"` // Depth with the most candidates
	PeakCount       int64   `json:"peak_count"`
	EmptyBins       int     `json:"empty_bins"`
	Coverage        string  `json:"coverage"` // e.g. "3/5 tokens"
}

// Summarize computes statistics over a report's histogram
func Summarize(report *models.Report) *Distribution {
	d := &Distribution{}
	if report == nil || len(report.Histogram) == 0 {
		return d
	}

	var weighted int64
	for _, p := range report.Histogram {
		d.TotalCandidates += p.Count
		weighted += int64(p.Depth) * p.Count
		if p.Count > d.PeakCount {
			d.PeakCount = p.Count
			d.PeakDepth = p.Depth
		}
		if p.Count == 0 {
			d.EmptyBins++
		}
	}

	last := report.Histogram[len(report.Histogram)-1]
	d.FullMatches = last.Count
	if d.TotalCandidates > 0 {
		d.MeanDepth = float64(weighted) / float64(d.TotalCandidates)
	}
	d.Coverage = fmt.Sprintf("%d/%d tokens", report.BestMatchLength, len(report.Histogram)-1)
	return d
}
