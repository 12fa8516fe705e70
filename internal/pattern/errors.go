package pattern

import (
	"errors"
	"fmt"
)

// Compilation errors. Every error returned by Parse and Compile wraps one
// of these in a *ParseError.
var (
	ErrWildcardInOneOf            = errors.New("wildcard not allowed inside a group")
	ErrRecursiveOneOf             = errors.New("nested groups are not supported")
	ErrPipeNotAllowedInStandalone = errors.New("'|' outside of a group")
	ErrClosingParenInStandalone   = errors.New("')' without matching '('")
	ErrIncomplete                 = errors.New("unterminated group")
	ErrEmptyOneOf                 = errors.New("group has no alternatives")
)

// ParseError records where a pattern failed to compile.
type ParseError struct {
	Pattern string
	Offset  int // byte offset of the offending character
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pattern: %v at offset %d in %q", e.Err, e.Offset, e.Pattern)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
