package patterns

import (
	"errors"

	"github.com/cheerioskun/matchninja/internal/pattern"
)

// Entry is a pattern in the panel with its compile result and last stats
type Entry struct {
	Text      string           // The pattern source
	Matcher   *pattern.Matcher // Compiled pattern (nil if invalid)
	Valid     bool             // Whether the pattern compiled
	Error     string           // Compile error if invalid
	ErrOffset int              // Byte offset of the compile error

	// Filled from the latest report for this pattern
	Analysed    bool
	FullMatches int64
	BestLength  int
}

// NewEntry compiles text into an entry
func NewEntry(text string) Entry {
	m, err := pattern.Compile(text)
	if err != nil {
		e := Entry{Text: text, Error: err.Error()}
		var perr *pattern.ParseError
		if errors.As(err, &perr) {
			e.Error = perr.Err.Error()
			e.ErrOffset = perr.Offset
		}
		return e
	}
	return Entry{Text: text, Matcher: m, Valid: true}
}
