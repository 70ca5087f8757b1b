// Package parser turns raw hand-history text into Hand records.
//
// Parsing is driven entirely by a compiled patterns.Matchers; the parser
// itself only knows the order in which fields are derived and the two
// street markers of the text format.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AkatukiSora/ace-analytics/internal/patterns"
)

const (
	summaryMarker = "*** SUMMARY ***"
	flopMarker    = "*** FLOP ***"
)

// Parse extracts one Hand from a raw hand fragment.
//
// Only the header is mandatory. A fragment without the player's hole cards
// yields a sitting-out Hand carrying just the header fields.
func Parse(raw string, m *patterns.Matchers) (Hand, error) {
	hdr := m.Header.FindStringSubmatch(raw)
	if hdr == nil {
		return Hand{}, malformed(raw, "header not found")
	}
	id, err := strconv.ParseInt(hdr[1], 10, 64)
	if err != nil {
		return Hand{}, malformed(raw, "hand id %q: %v", hdr[1], err)
	}
	stakes, err := parseStakes(hdr[2])
	if err != nil {
		return Hand{}, malformed(raw, "stakes %q: %v", hdr[2], err)
	}
	date, err := parseTimestamp(hdr[3])
	if err != nil {
		return Hand{}, malformed(raw, "timestamp %q: %v", hdr[3], err)
	}

	h := Hand{
		ID:         id,
		Date:       date,
		Stakes:     stakes,
		Position:   PosSittingOut,
		MoneySpent: decimal.Zero,
		MoneyWon:   decimal.Zero,
		Profit:     decimal.Zero,
	}

	hole := m.Hand.FindStringSubmatch(raw)
	if hole == nil {
		return h, nil
	}

	h.Position = position(raw, m)

	won := decimal.Zero
	if w := m.Win.FindStringSubmatch(raw); w != nil {
		if won, err = parseAmount(w[1]); err != nil {
			return Hand{}, malformed(raw, "win amount: %v", err)
		}
	}

	// Voluntary money: every call, bet and raise before the summary.
	preSummary, _, _ := strings.Cut(raw, summaryMarker)
	spent := decimal.Zero
	for _, a := range []struct {
		name  string
		re    *regexp.Regexp
		count *int
	}{
		{"call", m.Call, &h.Calls},
		{"bet", m.Bet, &h.Bets},
		{"raise", m.Raise, &h.Raises},
	} {
		for _, match := range a.re.FindAllStringSubmatch(preSummary, -1) {
			amt, err := parseAmount(match[1])
			if err != nil {
				return Hand{}, malformed(raw, "%s amount: %v", a.name, err)
			}
			spent = spent.Add(amt)
			*a.count++
		}
	}
	h.VPIP = spent.IsPositive()

	preFlop, _, reachedFlop := strings.Cut(raw, flopMarker)
	h.SawFlop = reachedFlop && !m.Fold.MatchString(preFlop)
	h.RaisedPreflop = m.Raise.MatchString(preFlop)

	// Forced money never counts toward VPIP.
	switch h.Position {
	case PosSmallBlind:
		spent = spent.Add(stakes.Small)
	case PosBigBlind:
		spent = spent.Add(stakes.Big)
	}
	if d := m.Dead.FindStringSubmatch(raw); d != nil {
		amt, err := parseAmount(d[1])
		if err != nil {
			return Hand{}, malformed(raw, "dead money: %v", err)
		}
		spent = spent.Add(amt)
	}

	if u := m.UncalledBet.FindStringSubmatch(raw); u != nil {
		amt, err := parseAmount(u[1])
		if err != nil {
			return Hand{}, malformed(raw, "uncalled bet: %v", err)
		}
		won = won.Add(amt)
	}

	h.MoneySpent = spent.Round(2)
	h.MoneyWon = won.Round(2)
	h.Profit = h.MoneyWon.Sub(h.MoneySpent)
	h.Won = h.Profit.IsPositive()

	if c := m.Community.FindStringSubmatch(raw); c != nil {
		h.Community = compactCards(c[1])
	}
	h.HoleCards = compactCards(hole[1])

	return h, nil
}

// position resolves button first, then lets a posted blind override it.
func position(raw string, m *patterns.Matchers) Position {
	pos := PosOther
	if btn := m.Button.FindStringSubmatch(raw); btn != nil {
		if seat := m.Position.FindStringSubmatch(raw); seat != nil && sameSeat(btn[1], seat[1]) {
			pos = PosButton
		}
	}
	if b := m.Blind.FindStringSubmatch(raw); b != nil {
		pos = Position(strings.ToLower(strings.TrimSpace(b[1])) + " blind")
	}
	return pos
}

func sameSeat(a, b string) bool {
	x, errX := strconv.Atoi(a)
	y, errY := strconv.Atoi(b)
	return errX == nil && errY == nil && x == y
}

func parseStakes(s string) (Stakes, error) {
	small, big, ok := strings.Cut(s, "/")
	if !ok {
		return Stakes{}, strconv.ErrSyntax
	}
	sb, err := parseAmount(small)
	if err != nil {
		return Stakes{}, err
	}
	bb, err := parseAmount(big)
	if err != nil {
		return Stakes{}, err
	}
	return Stakes{Small: sb, Big: bb, Text: s}, nil
}

// parseAmount reads a currency amount such as "$1,250.50".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}

func compactCards(s string) string {
	return strings.Join(strings.Fields(s), "")
}
