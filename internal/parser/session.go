package parser

import (
	"context"
	"fmt"
	"sort"

	"github.com/AkatukiSora/ace-analytics/internal/patterns"
)

// Options controls how a session is turned into hands.
type Options struct {
	// IncludeSittingOut keeps hands the player was not dealt into.
	IncludeSittingOut bool
	// Source is stamped into every Hand produced.
	Source string
}

// ParseSession segments a session text and parses every fragment.
// Malformed fragments are dropped and reported in the returned error slice.
func ParseSession(text string, m *patterns.Matchers, opts Options) ([]Hand, []error) {
	hands, problems, _ := ParseSessionContext(context.Background(), text, m, opts)
	return hands, problems
}

// ParseSessionContext is ParseSession with cancellation checked between
// fragments. The final error is non-nil only when ctx is done.
func ParseSessionContext(ctx context.Context, text string, m *patterns.Matchers, opts Options) ([]Hand, []error, error) {
	var (
		hands    []Hand
		problems []error
	)
	for i, raw := range Segment(text, m) {
		if err := ctx.Err(); err != nil {
			return hands, problems, err
		}
		h, err := Parse(raw, m)
		if err != nil {
			if opts.Source != "" {
				err = fmt.Errorf("%s: fragment %d: %w", opts.Source, i, err)
			} else {
				err = fmt.Errorf("fragment %d: %w", i, err)
			}
			problems = append(problems, err)
			continue
		}
		if h.SittingOut() && !opts.IncludeSittingOut {
			continue
		}
		h.Source = opts.Source
		hands = append(hands, h)
	}
	return hands, problems, nil
}

// SortByDate returns a copy of hands ordered by date. Hands with equal
// dates keep their relative order.
func SortByDate(hands []Hand, descending bool) []Hand {
	out := make([]Hand, len(hands))
	copy(out, hands)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
