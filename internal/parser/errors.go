package parser

import "fmt"

const snippetLen = 80

// MalformedHandError is returned when a hand fragment lacks a decodable
// header or carries an unreadable amount.
type MalformedHandError struct {
	Reason  string
	Snippet string // leading text of the fragment
}

func (e *MalformedHandError) Error() string {
	if e.Snippet == "" {
		return "malformed hand: " + e.Reason
	}
	return fmt.Sprintf("malformed hand: %s (near %q)", e.Reason, e.Snippet)
}

func malformed(raw, format string, args ...any) *MalformedHandError {
	s := []rune(raw)
	if len(s) > snippetLen {
		s = s[:snippetLen]
	}
	return &MalformedHandError{Reason: fmt.Sprintf(format, args...), Snippet: string(s)}
}
