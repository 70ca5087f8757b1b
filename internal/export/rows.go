// Package export writes hand collections to CSV, XLSX and PNG charts.
package export

import (
	"strconv"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

// Columns is the header row shared by the tabular exports.
var Columns = []string{"Hand ID", "Timestamp", "Position", "Stakes", "Hand", "Saw Flop", "Win", "Net Profit", "Profit in BB"}

const timestampLayout = "2006/01/02 15:04:05"

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func netProfit(h parser.Hand) string {
	return "$" + h.Profit.StringFixed(2)
}

func record(h parser.Hand) []string {
	return []string{
		strconv.FormatInt(h.ID, 10),
		h.Date.Format(timestampLayout),
		h.Position.String(),
		h.Stakes.Text,
		h.HoleCards,
		yesNo(h.SawFlop),
		yesNo(h.Won),
		netProfit(h),
		strconv.FormatFloat(h.ProfitInBB(), 'f', -1, 64),
	}
}
