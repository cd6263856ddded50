package loader

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrDenseMatrix    = errors.New("dense matrices are not supported")
	ErrUnknownFormat  = errors.New("unknown input format")
	ErrMissingTokens  = errors.New("too few tokens")
)

// ParseError reports the line and token a text loader failed on.
// It matches both ErrMalformedToken and the underlying cause with errors.Is.
type ParseError struct {
	Format Format
	Line   int
	Token  string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("%s line %d: malformed token %q: %v", e.Format, e.Line, e.Token, e.Err)
}

// Unwrap exposes ErrMalformedToken and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedToken, e.Err}
}
