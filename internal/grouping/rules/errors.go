package rules

import (
	"errors"
	"fmt"
)

// Sentinel causes a ParseError can wrap. Test with errors.Is.
var (
	ErrUnknownMatcher = errors.New("unknown matcher")
	ErrUnknownFlag    = errors.New("unknown flag")
)

// ParseError reports a malformed rule line. Compilation is atomic: a single
// ParseError rejects the whole ruleset and the previously compiled one stays
// in effect.
type ParseError struct {
	Line   int    // 1-based line number
	Token  string // offending token, when identifiable
	Reason string
	err    error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Token)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.err }

func parseErr(line int, token, reason string) *ParseError {
	return &ParseError{Line: line, Token: token, Reason: reason}
}

func parseErrWrap(line int, token, reason string, err error) *ParseError {
	return &ParseError{Line: line, Token: token, Reason: reason, err: err}
}
