package format

import (
	"time"

	"github.com/coder/quartz"
)

// Formatter renders dates relative to the time reported by Clock.
type Formatter struct {
	Clock quartz.Clock
}

var realClock = quartz.NewReal()

// Date buckets t against the current time: the time of day for today,
// month and day within the current year, month and year otherwise.
func Date(t time.Time) string {
	return Formatter{}.Date(t)
}

// Date is the package-level Date with f's clock.
func (f Formatter) Date(t time.Time) string {
	clock := f.Clock
	if clock == nil {
		clock = realClock
	}
	now := clock.Now().In(t.Location())

	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	switch {
	case ty == ny && tm == nm && td == nd:
		return t.Format("15:04")
	case ty == ny:
		return t.Format("January 02")
	default:
		return t.Format("January 2006")
	}
}
