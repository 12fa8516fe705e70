package pattern

import (
	"strings"
	"sync/atomic"
)

// Matcher is a compiled pattern. Match is safe for concurrent use.
type Matcher struct {
	text   string
	tokens []Token

	mostTokensMatched atomic.Int64
}

// Step is one successfully matched token within a trace.
type Step struct {
	Token   *Token
	Matched string // substring of the input
	Offset  int    // byte offset of Matched in the input
}

// Trace lists the tokens matched by one call to Match, in pattern order.
type Trace []Step

// End returns the number of input bytes consumed by the trace.
func (t Trace) End() int {
	if len(t) == 0 {
		return 0
	}
	last := t[len(t)-1]
	return last.Offset + len(last.Matched)
}

func (t Trace) String() string {
	var b strings.Builder
	for i, s := range t {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s.Token.String())
		b.WriteString("=")
		b.WriteString(`"` + s.Matched + `"`)
	}
	return b.String()
}

// Match runs the tokens over input left to right and stops at the first
// token that does not match. There is no backtracking: each token commits
// to its match before the next one is tried.
func (m *Matcher) Match(input string) Trace {
	trace := make(Trace, 0, len(m.tokens))
	pos := 0
	for i := range m.tokens {
		tok := &m.tokens[i]
		matched, ok := tok.MatchPrefix(input[pos:])
		if !ok {
			break
		}
		trace = append(trace, Step{Token: tok, Matched: matched, Offset: pos})
		pos += len(matched)
	}
	m.observe(len(trace))
	return trace
}

func (m *Matcher) observe(n int) {
	v := int64(n)
	for {
		cur := m.mostTokensMatched.Load()
		if v <= cur || m.mostTokensMatched.CompareAndSwap(cur, v) {
			return
		}
	}
}

// BestMatchLength returns the longest trace this matcher has produced.
func (m *Matcher) BestMatchLength() int {
	return int(m.mostTokensMatched.Load())
}

// IsFullMatch reports whether every token of the pattern matched.
// Trailing input after the last token is allowed.
func (m *Matcher) IsFullMatch(t Trace) bool {
	return len(t) == len(m.tokens)
}

// Text returns the source pattern.
func (m *Matcher) Text() string { return m.text }

// Tokens returns the compiled tokens. The slice must not be modified.
func (m *Matcher) Tokens() []Token { return m.tokens }

// NumTokens returns the number of compiled tokens.
func (m *Matcher) NumTokens() int { return len(m.tokens) }

func (m *Matcher) String() string { return m.text }
