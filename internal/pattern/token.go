package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
)

// Kind identifies the variant of a Token.
type Kind int

const (
	// RawText matches a literal run exactly.
	RawText Kind = iota
	// OneOfText matches the longest of a set of literal alternatives.
	OneOfText
	// WildCard matches any single codepoint.
	WildCard
)

func (k Kind) String() string {
	switch k {
	case RawText:
		return "RawText"
	case OneOfText:
		return "OneOfText"
	case WildCard:
		return "WildCard"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Span is a half-open byte range [Start, End) into the pattern text.
type Span struct {
	Start int
	End   int
}

// prefilterThreshold is the group size above which an Aho-Corasick
// automaton is built to reject inputs before trying each alternative.
const prefilterThreshold = 8

// Token is one compiled element of a pattern. Text and Choices are
// substrings of the pattern they were compiled from.
type Token struct {
	Kind    Kind
	Span    Span
	Text    string
	Choices []string

	longest int
	filter  *ahocorasick.Automaton
}

func newRawText(text string, start int) Token {
	return Token{Kind: RawText, Span: Span{start, start + len(text)}, Text: text}
}

func newWildCard(start int) Token {
	return Token{Kind: WildCard, Span: Span{start, start + 1}}
}

func newOneOfText(choices []string, span Span) Token {
	t := Token{Kind: OneOfText, Span: span, Choices: choices}
	for _, c := range choices {
		if len(c) > t.longest {
			t.longest = len(c)
		}
	}
	if len(choices) > prefilterThreshold {
		builder := ahocorasick.NewBuilder()
		for _, c := range choices {
			builder.AddPattern([]byte(c))
		}
		// A failed build only costs the fast reject path.
		if auto, err := builder.Build(); err == nil {
			t.filter = auto
		}
	}
	return t
}

// MatchPrefix reports whether the token matches at the start of input and
// returns the matched prefix.
func (t *Token) MatchPrefix(input string) (string, bool) {
	switch t.Kind {
	case RawText:
		if strings.HasPrefix(input, t.Text) {
			return input[:len(t.Text)], true
		}
		return "", false
	case OneOfText:
		return t.matchOneOf(input)
	case WildCard:
		if input == "" {
			return "", false
		}
		_, size := utf8.DecodeRuneInString(input)
		return input[:size], true
	default:
		return "", false
	}
}

// matchOneOf picks the longest alternative that prefixes input. Strict
// comparison keeps the first listed alternative on equal lengths.
func (t *Token) matchOneOf(input string) (string, bool) {
	if t.filter != nil {
		window := input
		if len(window) > t.longest {
			window = window[:t.longest]
		}
		if !t.filter.IsMatch([]byte(window)) {
			return "", false
		}
	}

	best := -1
	for _, c := range t.Choices {
		if len(c) > best && strings.HasPrefix(input, c) {
			best = len(c)
		}
	}
	if best < 0 {
		return "", false
	}
	return input[:best], true
}

// Prefiltered reports whether the token carries an alternation automaton.
func (t *Token) Prefiltered() bool { return t.filter != nil }

func (t Token) String() string {
	switch t.Kind {
	case RawText:
		return "RawText(" + strconv.Quote(t.Text) + ")"
	case OneOfText:
		quoted := make([]string, len(t.Choices))
		for i, c := range t.Choices {
			quoted[i] = strconv.Quote(c)
		}
		return "OneOfText([" + strings.Join(quoted, ", ") + "])"
	case WildCard:
		return "WildCard"
	default:
		return t.Kind.String()
	}
}
