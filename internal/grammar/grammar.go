// Package grammar parses and formats the two small control languages:
// single-statement simple controls and multi-line rule blocks.
//
// Both directions round-trip: formatting a parsed value reproduces the
// input up to whitespace normalization and keyword case. Rule condition
// and action lines are validated for block structure only and otherwise
// kept verbatim; evaluation belongs to the external engine.
package grammar

import "fmt"

// ParseError reports a malformed control or rule line. The offending line
// is carried so batch importers can report it with context.
type ParseError struct {
	Line    string // the offending input line
	Section string // active section name, when parsing inside a file
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("[%s] %s: %q", e.Section, e.Msg, e.Line)
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Line)
}

func parseErr(line, msg string) *ParseError {
	return &ParseError{Line: line, Msg: msg}
}
