package format

import "fmt"

// FormatError reports input a display helper could not render.
type FormatError struct {
	Input  string
	Pos    int // byte offset of the offending token
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %q: %s at position %d", e.Input, e.Reason, e.Pos)
}
