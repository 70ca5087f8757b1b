package patterns

import "regexp"

// Matchers is the compiled catalog for one player. It is read-only and safe
// for concurrent use.
type Matchers struct {
	Player string

	Header      *regexp.Regexp // (id, stakes, timestamp)
	Button      *regexp.Regexp // (seat)
	Position    *regexp.Regexp // (seat)
	Blind       *regexp.Regexp // (blind type)
	Hand        *regexp.Regexp // (hole cards)
	Win         *regexp.Regexp // (amount)
	Call        *regexp.Regexp // (amount)
	Bet         *regexp.Regexp // (amount)
	Raise       *regexp.Regexp // (amount)
	Fold        *regexp.Regexp
	Dead        *regexp.Regexp // (amount)
	UncalledBet *regexp.Regexp // (amount)
	Community   *regexp.Regexp // (board)
	HandSplit   *regexp.Regexp
}
