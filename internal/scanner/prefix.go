package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// PrefixPattern recognises one leading timestamp format.
type PrefixPattern struct {
	Name  string
	Regex *regexp.Regexp
}

// PrefixStripper removes leading timestamps from log lines so patterns
// can be written against the message text.
type PrefixStripper struct {
	patterns []PrefixPattern
	fs       afero.Fs
}

// NewPrefixStripper creates a stripper with the default timestamp formats
func NewPrefixStripper(fs afero.Fs) *PrefixStripper {
	return &PrefixStripper{
		patterns: compileDefaultPrefixes(),
		fs:       fs,
	}
}

func compileDefaultPrefixes() []PrefixPattern {
	patterns := []struct {
		name  string
		regex string
	}{
		// Longest forms first so a shorter one never wins on a prefix.
		{"ISO8601", `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?`},
		{"DateTime_Frac", `\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}[.,]\d+Z?`},
		{"DateTime_Dash", `\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`},
		{"DateTime_Slash", `\d{4}/\d{2}/\d{2}\s+\d{2}:\d{2}:\d{2}`},
		{"Glog_Long", `[IWEF]\d{8}\s+\d{2}:\d{2}:\d{2}\.\d+`},
		{"Glog_Short", `[IWEF]\d{4}\s+\d{2}:\d{2}:\d{2}\.\d+`},
		{"Syslog", `[A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}`},
		{"Apache", `\[?\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}\s+[+-]\d{4}\]?`},
	}

	compiled := make([]PrefixPattern, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, PrefixPattern{
			Name:  p.name,
			Regex: regexp.MustCompile(`^` + p.regex + `[\s:|-]*`),
		})
	}
	return compiled
}

// Strip removes a leading timestamp and the separators after it. preferred
// is tried first when non-nil. The second result reports whether anything
// was removed.
func (ps *PrefixStripper) Strip(line string, preferred *PrefixPattern) (string, bool) {
	if preferred != nil {
		if loc := preferred.Regex.FindStringIndex(line); loc != nil {
			return line[loc[1]:], true
		}
	}
	for i := range ps.patterns {
		if loc := ps.patterns[i].Regex.FindStringIndex(line); loc != nil {
			return line[loc[1]:], true
		}
	}
	return line, false
}

// DetectResult holds the format seen most often at the head of a file.
type DetectResult struct {
	Pattern    *PrefixPattern
	MatchCount int
	Confidence float64 // 0.0 to 1.0
}

// DetectBestPattern checks up to the first ten non-empty lines of path
// and returns the format that prefixes most of them.
func (ps *PrefixStripper) DetectBestPattern(path string) (*DetectResult, error) {
	counts := make([]int, len(ps.patterns))
	seen := 0

	err := ForEachLine(ps.fs, path, func(_ int, line string) bool {
		if strings.TrimSpace(line) == "" {
			return true
		}
		seen++
		for i := range ps.patterns {
			if ps.patterns[i].Regex.MatchString(line) {
				counts[i]++
				break
			}
		}
		return seen < 10
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s: %w", path, err)
	}

	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return &DetectResult{}, nil
	}
	return &DetectResult{
		Pattern:    &ps.patterns[best],
		MatchCount: counts[best],
		Confidence: float64(counts[best]) / float64(seen),
	}, nil
}
