package filter

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every *SyntaxError using errors.Is.
var ErrSyntax = errors.New("invalid filter expression")

// SyntaxError is returned by Matches when an expression contains an opening parenthesis
// without a matching, non-empty innermost group, e.g. "(a and b" or "a or ()".
type SyntaxError struct {
	// Expression is the expression text at the time the error was detected. Groups that were
	// already reduced appear as :TRUE or :FALSE literals.
	Expression string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid filter '%s', unbalanced or empty parentheses", e.Expression)
}

// Unwrap allows errors.Is(err, ErrSyntax).
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
