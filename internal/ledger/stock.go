package ledger

import "github.com/shopspring/decimal"

// Delta returns the signed effect of a line of the given kind on on-hand stock.
//
// Stock in and adjustments add, stock out subtracts. Transfers move goods
// between locations of the same warehouse and leave the total unchanged.
// Every stock figure in the system (current stock, running balances,
// valuation) goes through this function.
func Delta(t TransactionType, qty decimal.Decimal) decimal.Decimal {
	switch t {
	case TxIn, TxAdjustment:
		return qty
	case TxOut:
		return qty.Neg()
	default:
		return decimal.Zero
	}
}

// CurrentStock folds a product's movement history into its on-hand quantity.
// An empty history yields zero.
func CurrentStock(movements []Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(Delta(m.Type, m.Quantity))
	}
	return total
}

// RunningBalances replays movements oldest to newest starting from opening
// and returns the balance after each movement, index-aligned with the input.
func RunningBalances(opening decimal.Decimal, movements []Movement) []decimal.Decimal {
	balances := make([]decimal.Decimal, len(movements))
	balance := opening
	for i, m := range movements {
		balance = balance.Add(Delta(m.Type, m.Quantity))
		balances[i] = balance
	}
	return balances
}

type StockLevel string

const (
	StockLow    StockLevel = "LOW"
	StockNormal StockLevel = "NORMAL"
	StockHigh   StockLevel = "HIGH"
)

// Level classifies current stock against the product thresholds.
// A zero maximum means "no upper bound".
func Level(current, minimum, maximum decimal.Decimal) StockLevel {
	if current.LessThan(minimum) {
		return StockLow
	}
	if maximum.IsPositive() && current.GreaterThan(maximum) {
		return StockHigh
	}
	return StockNormal
}
