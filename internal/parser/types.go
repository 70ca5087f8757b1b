package parser

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Position is the player's role at the table for one hand.
type Position string

const (
	PosButton     Position = "button"
	PosSmallBlind Position = "small blind"
	PosBigBlind   Position = "big blind"
	PosOther      Position = "other"
	PosSittingOut Position = "sitting out"
)

func (p Position) String() string { return string(p) }

// Stakes is the small/big blind pair of a hand.
type Stakes struct {
	Small decimal.Decimal
	Big   decimal.Decimal
	Text  string // as written in the header, e.g. "$0.01/$0.02"
}

func (s Stakes) String() string { return s.Text }

// Hand is one parsed hand from the player's point of view.
type Hand struct {
	ID     int64
	Source string // session file the hand was read from
	Date   time.Time

	Position  Position
	Stakes    Stakes
	HoleCards string // compact, e.g. "8sTc"; empty when sitting out
	Community string // compact board, possibly empty

	Won           bool
	VPIP          bool
	SawFlop       bool
	RaisedPreflop bool

	MoneySpent decimal.Decimal
	MoneyWon   decimal.Decimal
	Profit     decimal.Decimal

	Calls  int
	Bets   int
	Raises int
}

// SittingOut reports whether the player was not dealt into the hand.
func (h Hand) SittingOut() bool { return h.Position == PosSittingOut }

// ProfitInBB returns the profit measured in big blinds, or 0 when the big
// blind is unknown.
func (h Hand) ProfitInBB() float64 {
	if h.Stakes.Big.IsZero() {
		return 0
	}
	return h.Profit.Div(h.Stakes.Big).InexactFloat64()
}

// String renders a short multi-line summary of the hand.
func (h Hand) String() string {
	won := "No"
	if h.Won {
		won = "Yes"
	}
	return fmt.Sprintf("Hand #%d (%s)\nTimestamp: %s\nPosition: %s\nHand: %s\nWin: %s\nNet: $%s",
		h.ID, h.Stakes.Text, h.Date.Format("2006/01/02 15:04:05 MST"), h.Position, h.HoleCards, won, h.Profit.StringFixed(2))
}
