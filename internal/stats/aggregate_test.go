package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func microStakes() parser.Stakes {
	return parser.Stakes{Small: dec("0.01"), Big: dec("0.02"), Text: "$0.01/$0.02"}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	got := Aggregate(nil)
	want := PlayerStats{
		CumulativeProfit: decimal.Zero,
		DollarsPer100:    decimal.Zero,
		BestHand:         NoBestHand,
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Fatalf("Aggregate(nil) mismatch (-want +got):\n%s", diff)
	}
	if got.HasEarliest() {
		t.Error("empty input must not report an earliest hand")
	}
	if got.AF.String() != "-" {
		t.Errorf("AF = %q, want -", got.AF.String())
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	base := time.Date(2023, 5, 11, 21, 0, 0, 0, time.UTC)
	hands := []parser.Hand{
		{ID: 1, Date: base.Add(time.Minute), Stakes: microStakes(), HoleCards: "8sTc", Profit: dec("-0.01")},
		{ID: 2, Date: base, Stakes: microStakes(), HoleCards: "AhKd", Won: true, VPIP: true, RaisedPreflop: true, Raises: 1, Profit: dec("0.05")},
		{ID: 3, Date: base.Add(2 * time.Minute), Stakes: microStakes(), HoleCards: "7c7d", Won: true, VPIP: true, Calls: 2, Bets: 1, Profit: dec("0.10")},
	}

	got := Aggregate(hands)
	want := PlayerStats{
		Hands:            3,
		VPIP:             0.67,
		PFR:              0.33,
		AF:               Ratio{Value: 1, Valid: true},
		CumulativeProfit: dec("0.14"),
		BBPer100:         233.33,
		DollarsPer100:    dec("4.67"),
		BestHand:         "77",
		EarliestHand:     base,
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Fatalf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateUndefinedAF(t *testing.T) {
	t.Parallel()

	got := Aggregate([]parser.Hand{{Stakes: microStakes(), Bets: 3, Raises: 1, Profit: decimal.Zero}})
	if got.AF.Valid {
		t.Fatalf("AF = %+v, want undefined without calls", got.AF)
	}
}

func TestAggregateVPIPIsRoundedMean(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 9; n++ {
		hands := make([]parser.Hand, n)
		voluntary := 0
		for i := range hands {
			hands[i] = parser.Hand{Stakes: microStakes(), Profit: decimal.Zero, VPIP: i%3 == 0}
			if hands[i].VPIP {
				voluntary++
			}
		}
		want := round2(float64(voluntary) / float64(n))
		if got := Aggregate(hands).VPIP; got != want {
			t.Errorf("n=%d: VPIP = %v, want %v", n, got, want)
		}
	}
}

func TestBestHandTieBreak(t *testing.T) {
	t.Parallel()

	hands := []parser.Hand{
		{Stakes: microStakes(), HoleCards: "QsJs", Won: true, Profit: dec("1")},
		{Stakes: microStakes(), HoleCards: "AhKd", Won: true, Profit: dec("1")},
		{Stakes: microStakes(), HoleCards: "QdJc", Won: true, Profit: dec("1")},
		{Stakes: microStakes(), HoleCards: "AcKc", Won: true, Profit: dec("1")},
		{Stakes: microStakes(), HoleCards: "2c2d", Won: false, Profit: dec("-1")},
		{Stakes: microStakes(), HoleCards: "2h2s", Won: false, Profit: dec("-1")},
		{Stakes: microStakes(), HoleCards: "2h2c", Won: false, Profit: dec("-1")},
	}
	if got := Aggregate(hands).BestHand; got != "AK" {
		t.Fatalf("BestHand = %q, want AK", got)
	}

	if got := Aggregate(hands[4:]).BestHand; got != NoBestHand {
		t.Fatalf("BestHand without wins = %q, want %q", got, NoBestHand)
	}
}

func TestCumulativeProfit(t *testing.T) {
	t.Parallel()

	base := time.Date(2023, 5, 11, 21, 0, 0, 0, time.UTC)
	hands := []parser.Hand{
		{Date: base.Add(2 * time.Minute), Profit: dec("-0.50")},
		{Date: base, Profit: dec("1.25")},
		{Date: base.Add(time.Minute), Profit: dec("0.25")},
	}
	got := CumulativeProfit(hands)
	want := []decimal.Decimal{dec("1.25"), dec("1.50"), dec("1.00")}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Fatalf("CumulativeProfit mismatch (-want +got):\n%s", diff)
	}
	if got := CumulativeProfit(nil); len(got) != 0 {
		t.Fatalf("CumulativeProfit(nil) = %v, want empty", got)
	}
}

func TestRatioString(t *testing.T) {
	t.Parallel()

	if got := (Ratio{Value: 1.5, Valid: true}).String(); got != "1.50" {
		t.Errorf("String = %q, want 1.50", got)
	}
	if got := (Ratio{}).String(); got != "-" {
		t.Errorf("String = %q, want -", got)
	}
}
