package format

import "github.com/shopspring/decimal"

// Profit renders a signed amount rounded to cents: -12.345 as "-$12.35",
// zero as "$0".
func Profit(v decimal.Decimal) string {
	r := v.Round(2)
	if r.IsNegative() {
		return "-$" + r.Abs().String()
	}
	return "$" + r.String()
}

// ProfitFloat is Profit for a float amount.
func ProfitFloat(v float64) string {
	return Profit(decimal.NewFromFloat(v))
}
