package ledger

import "github.com/shopspring/decimal"

// Places is the number of decimal places stored for quantities and money.
const Places = 2

// WithinPlaces reports whether d can be stored without rounding.
func WithinPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Places))
}

// LineTotal is the total cost of a single line.
func LineTotal(qty, unitCost decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitCost)
}

// HeaderTotal sums the line totals of a transaction.
func HeaderTotal(lineTotals []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, t := range lineTotals {
		total = total.Add(t)
	}
	return total
}
