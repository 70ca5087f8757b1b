package stats

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// NoBestHand is reported when no hand was won.
const NoBestHand = "Not enough data"

// PlayerStats is the summary of a hand collection.
type PlayerStats struct {
	Hands int

	VPIP float64 // fraction of hands with voluntary money in, 2 dp
	PFR  float64 // fraction of hands raised before the flop, 2 dp
	AF   Ratio   // (bets+raises)/calls

	CumulativeProfit decimal.Decimal
	BBPer100         float64
	DollarsPer100    decimal.Decimal

	// BestHand is the rank pair, e.g. "AK", won with most often.
	BestHand     string
	EarliestHand time.Time
}

// HasEarliest reports whether EarliestHand is set.
func (s PlayerStats) HasEarliest() bool { return !s.EarliestHand.IsZero() }

// Ratio is a quotient that may be undefined.
type Ratio struct {
	Value float64
	Valid bool // false when the denominator was zero
}

// String renders the ratio with two decimals, or "-" when undefined.
func (r Ratio) String() string {
	if !r.Valid {
		return "-"
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}
