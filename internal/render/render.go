// Package render prints compiled patterns, match traces and reports for
// the terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/pattern"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes coloured output when the destination is a terminal.
type Printer struct {
	w io.Writer

	bold   *color.Color
	cyan   *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	faint  *color.Color
}

// NewPrinter writes to w. Colour is used only when enabled is true and w
// is a terminal.
func NewPrinter(w io.Writer, enabled bool) *Printer {
	useColor := enabled
	if f, ok := w.(*os.File); ok {
		useColor = useColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	} else {
		useColor = false
	}

	p := &Printer{
		w:      w,
		bold:   color.New(color.Bold),
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.bold, p.cyan, p.green, p.yellow, p.red, p.faint} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Tokens prints one line per compiled token with its source span.
func (p *Printer) Tokens(m *pattern.Matcher) {
	fmt.Fprintf(p.w, "%s %s (%d tokens)\n", p.bold.Sprint("pattern"), p.cyan.Sprintf("%q", m.Text()), m.NumTokens())
	for i, tok := range m.Tokens() {
		fmt.Fprintf(p.w, "  %2d  %-8s %s\n", i, p.faint.Sprintf("[%d:%d]", tok.Span.Start, tok.Span.End), tok.String())
	}
}

// ParseError prints a compile failure with a caret under the offending
// character.
func (p *Printer) ParseError(perr *pattern.ParseError) {
	fmt.Fprintf(p.w, "%s %v\n", p.red.Sprint("error:"), perr.Err)
	fmt.Fprintf(p.w, "  %s\n", perr.Pattern)
	col := len([]rune(perr.Pattern[:perr.Offset]))
	fmt.Fprintf(p.w, "  %s%s\n", strings.Repeat(" ", col), p.red.Sprint("^"))
}

// Trace prints a candidate with its matched prefix highlighted, followed by
// one line per matched token.
func (p *Printer) Trace(m *pattern.Matcher, candidate string, tr pattern.Trace) {
	end := tr.End()
	status := p.yellow.Sprintf("%d/%d", len(tr), m.NumTokens())
	if m.IsFullMatch(tr) {
		status = p.green.Sprintf("%d/%d", len(tr), m.NumTokens())
	} else if len(tr) == 0 {
		status = p.red.Sprintf("%d/%d", len(tr), m.NumTokens())
	}
	fmt.Fprintf(p.w, "%s %s%s\n", status, p.green.Sprint(candidate[:end]), p.faint.Sprint(candidate[end:]))
	for _, s := range tr {
		fmt.Fprintf(p.w, "    %-30s %q\n", s.Token.String(), s.Matched)
	}
}

// Best prints the matcher's best match length.
func (p *Printer) Best(m *pattern.Matcher) {
	fmt.Fprintf(p.w, "%s %d of %d tokens\n", p.bold.Sprint("best match length:"), m.BestMatchLength(), m.NumTokens())
}

// Report prints an analysis summary with a text histogram.
func (p *Printer) Report(r *models.Report) {
	fmt.Fprintf(p.w, "%s %s\n", p.bold.Sprint("Pattern:"), p.cyan.Sprint(r.Pattern))
	fmt.Fprintf(p.w, "  Source: %s (%s, %d files)\n", r.Source, r.Split, r.FileCount())
	fmt.Fprintf(p.w, "  Candidates: %d\n", r.Candidates)
	fmt.Fprintf(p.w, "  Full matches: %s (%.1f%%)\n", p.green.Sprint(r.FullMatches), r.MatchRate()*100)
	fmt.Fprintf(p.w, "  Best match length: %d of %d tokens\n", r.BestMatchLength, len(r.Tokens))
	fmt.Fprintf(p.w, "  Took: %s\n\n", r.Duration.Round(time.Millisecond))

	fmt.Fprintln(p.w, p.bold.Sprint("Depth histogram:"))
	max := r.MaxBinCount()
	const width = 40
	for _, pt := range r.Histogram {
		bar := 0
		if max > 0 {
			bar = int(pt.Count * width / max)
		}
		if pt.Count > 0 && bar == 0 {
			bar = 1
		}
		fmt.Fprintf(p.w, "  %3d │%s %d\n", pt.Depth, p.cyan.Sprint(strings.Repeat("█", bar)), pt.Count)
	}

	if len(r.Samples) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.bold.Sprint("Best candidates:"))
		for _, s := range r.Samples {
			fmt.Fprintf(p.w, "  %s\n", s)
		}
	}
	if len(r.UnmatchedWords) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintf(p.w, "%s %s\n", p.bold.Sprint("Unmatched words:"), p.faint.Sprint(strings.Join(r.UnmatchedWords, " ")))
	}
}

// Words prints a list with an optional heading.
func (p *Printer) Words(heading string, list []string) {
	if heading != "" {
		fmt.Fprintln(p.w, p.bold.Sprint(heading))
	}
	for _, w := range list {
		fmt.Fprintf(p.w, "  %q\n", w)
	}
}
