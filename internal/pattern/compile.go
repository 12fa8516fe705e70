package pattern

type parseMode int

const (
	standalone parseMode = iota
	oneOf
)

// parser turns a pattern into tokens in a single pass.
type parser struct {
	src    string
	mode   parseMode
	tokens []Token

	runStart   int // -1 when no literal run is open
	groupStart int
	pending    []string

	// wildcardAt holds the first '.' seen inside the open group. It is
	// reported when the group closes, so an unterminated group reports
	// ErrIncomplete instead.
	wildcardAt int
}

// Parse compiles a pattern into its token sequence.
func Parse(pattern string) ([]Token, error) {
	p := &parser{src: pattern, runStart: -1, wildcardAt: -1}
	return p.parse()
}

func (p *parser) parse() ([]Token, error) {
	for i, r := range p.src {
		switch r {
		case '.':
			if p.mode == oneOf {
				if p.wildcardAt < 0 {
					p.wildcardAt = i
				}
				continue
			}
			p.flush(i)
			p.tokens = append(p.tokens, newWildCard(i))
		case '(':
			if p.mode == oneOf {
				return nil, p.fail(i, ErrRecursiveOneOf)
			}
			p.flush(i)
			p.mode = oneOf
			p.groupStart = i
			p.pending = nil
		case '|':
			if p.mode == standalone {
				return nil, p.fail(i, ErrPipeNotAllowedInStandalone)
			}
			p.flush(i)
		case ')':
			if p.mode == standalone {
				return nil, p.fail(i, ErrClosingParenInStandalone)
			}
			if p.wildcardAt >= 0 {
				return nil, p.fail(p.wildcardAt, ErrWildcardInOneOf)
			}
			p.flush(i)
			if len(p.pending) == 0 {
				return nil, p.fail(i, ErrEmptyOneOf)
			}
			p.tokens = append(p.tokens, newOneOfText(p.pending, Span{p.groupStart, i + 1}))
			p.pending = nil
			p.mode = standalone
		default:
			if p.runStart < 0 {
				p.runStart = i
			}
		}
	}

	if p.mode == oneOf {
		return nil, p.fail(p.groupStart, ErrIncomplete)
	}
	p.flush(len(p.src))
	return p.tokens, nil
}

// flush closes the open literal run at end. Outside a group the run
// becomes a RawText token, inside it becomes a pending alternative.
func (p *parser) flush(end int) {
	if p.runStart < 0 {
		return
	}
	run := p.src[p.runStart:end]
	if p.mode == oneOf {
		p.pending = append(p.pending, run)
	} else {
		p.tokens = append(p.tokens, newRawText(run, p.runStart))
	}
	p.runStart = -1
}

func (p *parser) fail(offset int, err error) error {
	return &ParseError{Pattern: p.src, Offset: offset, Err: err}
}

// Compile parses a pattern and returns a Matcher for it.
func Compile(pattern string) (*Matcher, error) {
	tokens, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	return &Matcher{text: pattern, tokens: tokens}, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}
