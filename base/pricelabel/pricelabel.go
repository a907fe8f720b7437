// Package pricelabel renders bid and price amounts for notifications and
// client display. Amounts are stored as float64; rendering goes through
// decimal so values like 119.99999999 never leak into an email.
package pricelabel

import (
	"github.com/shopspring/decimal"
)

const displayPlaces = 2

// Format renders an amount with two decimal places, e.g. 125 -> "125.00".
func Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(displayPlaces)
}

// FormatWithCurrency prefixes the rendered amount with a currency symbol.
func FormatWithCurrency(symbol string, amount float64) string {
	return symbol + Format(amount)
}

// Sum adds amounts without accumulating float error.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}
