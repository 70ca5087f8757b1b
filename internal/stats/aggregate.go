// Package stats reduces parsed hands into player statistics.
package stats

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

var hundred = decimal.NewFromInt(100)

// Aggregate computes PlayerStats over hands. It has no side effects and
// accepts an empty slice.
func Aggregate(hands []parser.Hand) PlayerStats {
	st := PlayerStats{
		Hands:            len(hands),
		CumulativeProfit: decimal.Zero,
		DollarsPer100:    decimal.Zero,
		BestHand:         NoBestHand,
	}
	if len(hands) == 0 {
		return st
	}

	var vpip, pfr, calls, aggressive int
	profit, profitInBB := decimal.Zero, decimal.Zero
	wins := map[string]int{}
	for _, h := range hands {
		if h.VPIP {
			vpip++
		}
		if h.RaisedPreflop {
			pfr++
		}
		calls += h.Calls
		aggressive += h.Bets + h.Raises

		profit = profit.Add(h.Profit)
		if !h.Stakes.Big.IsZero() {
			profitInBB = profitInBB.Add(h.Profit.Div(h.Stakes.Big))
		}

		if h.Won && len(h.HoleCards) >= 3 {
			wins[h.HoleCards[0:1]+h.HoleCards[2:3]]++
		}

		if st.EarliestHand.IsZero() || h.Date.Before(st.EarliestHand) {
			st.EarliestHand = h.Date
		}
	}

	n := decimal.NewFromInt(int64(len(hands)))
	st.VPIP = round2(float64(vpip) / float64(len(hands)))
	st.PFR = round2(float64(pfr) / float64(len(hands)))
	if calls > 0 {
		st.AF = Ratio{Value: round2(float64(aggressive) / float64(calls)), Valid: true}
	}
	st.CumulativeProfit = profit.Round(2)
	st.BBPer100 = profitInBB.Div(n).Mul(hundred).Round(2).InexactFloat64()
	st.DollarsPer100 = st.CumulativeProfit.Div(n).Mul(hundred).Round(2)
	st.BestHand = bestHand(wins)

	return st
}

// bestHand picks the combo with the most wins; ties go to the
// lexicographically smallest combo.
func bestHand(wins map[string]int) string {
	best, bestN := "", 0
	for combo, n := range wins {
		if n > bestN || (n == bestN && combo < best) {
			best, bestN = combo, n
		}
	}
	if bestN == 0 {
		return NoBestHand
	}
	return best
}

// CumulativeProfit returns the running profit total after each hand, in
// date order.
func CumulativeProfit(hands []parser.Hand) []decimal.Decimal {
	sorted := parser.SortByDate(hands, false)
	out := make([]decimal.Decimal, len(sorted))
	total := decimal.Zero
	for i, h := range sorted {
		total = total.Add(h.Profit)
		out[i] = total
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
