package models

import "time"

// SplitMode selects how corpus lines become match candidates.
type SplitMode string

const (
	SplitLines SplitMode = "lines"
	SplitWords SplitMode = "words"
)

// DepthPoint is one histogram bin: how many candidates produced a trace of
// exactly Depth tokens.
type DepthPoint struct {
	Depth int   `json:"depth" yaml:"depth"`
	Count int64 `json:"count" yaml:"count"`
}

// FileResult summarises matching over a single file.
type FileResult struct {
	Path        string `json:"path" yaml:"path"`
	Candidates  int64  `json:"candidates" yaml:"candidates"`
	FullMatches int64  `json:"full_matches" yaml:"full_matches"`
	BestDepth   int    `json:"best_depth" yaml:"best_depth"`
}

// Report is the outcome of running one pattern over a corpus.
type Report struct {
	ID              string        `json:"id" yaml:"id"`
	Pattern         string        `json:"pattern" yaml:"pattern"`
	Tokens          []string      `json:"tokens" yaml:"tokens"`
	Source          string        `json:"source" yaml:"source"`
	Split           SplitMode     `json:"split" yaml:"split"`
	Files           []FileResult  `json:"files" yaml:"files"`
	Candidates      int64         `json:"candidates" yaml:"candidates"`
	FullMatches     int64         `json:"full_matches" yaml:"full_matches"`
	BestMatchLength int           `json:"best_match_length" yaml:"best_match_length"`
	Histogram       []DepthPoint  `json:"histogram" yaml:"histogram"`
	Samples         []string      `json:"samples" yaml:"samples"`                 // Candidates that reached BestMatchLength
	UnmatchedWords  []string      `json:"unmatched_words" yaml:"unmatched_words"` // Sorted, unique
	CreatedAt       time.Time     `json:"created_at" yaml:"created_at"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
}

// NewReport creates an empty report with one histogram bin per possible
// trace length.
func NewReport(pattern string, tokens []string, source string, split SplitMode) *Report {
	hist := make([]DepthPoint, len(tokens)+1)
	for i := range hist {
		hist[i].Depth = i
	}
	return &Report{
		Pattern:        pattern,
		Tokens:         tokens,
		Source:         source,
		Split:          split,
		Files:          make([]FileResult, 0),
		Histogram:      hist,
		Samples:        make([]string, 0),
		UnmatchedWords: make([]string, 0),
		CreatedAt:      time.Now(),
	}
}

// AddFile appends a file result and folds it into the totals.
func (r *Report) AddFile(res FileResult) {
	r.Files = append(r.Files, res)
	r.Candidates += res.Candidates
	r.FullMatches += res.FullMatches
	if res.BestDepth > r.BestMatchLength {
		r.BestMatchLength = res.BestDepth
	}
}

// AddDepth adds n traces of the given depth to the histogram. Depths
// outside the pattern's range are ignored.
func (r *Report) AddDepth(depth int, n int64) {
	if depth >= 0 && depth < len(r.Histogram) {
		r.Histogram[depth].Count += n
	}
}

// MatchRate is the fraction of candidates that matched every token.
func (r *Report) MatchRate() float64 {
	if r.Candidates == 0 {
		return 0.0
	}
	return float64(r.FullMatches) / float64(r.Candidates)
}

func (r *Report) FileCount() int {
	return len(r.Files)
}

// MaxBinCount returns the largest histogram count.
func (r *Report) MaxBinCount() int64 {
	var max int64
	for _, p := range r.Histogram {
		if p.Count > max {
			max = p.Count
		}
	}
	return max
}

// Clone returns a deep copy.
func (r *Report) Clone() *Report {
	clone := *r
	clone.Tokens = append([]string(nil), r.Tokens...)
	clone.Files = append([]FileResult(nil), r.Files...)
	clone.Histogram = append([]DepthPoint(nil), r.Histogram...)
	clone.Samples = append([]string(nil), r.Samples...)
	clone.UnmatchedWords = append([]string(nil), r.UnmatchedWords...)
	return &clone
}
