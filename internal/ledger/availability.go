package ledger

import "github.com/shopspring/decimal"

// AvailabilityCheck describes one proposed quantity against a product's stock.
//
// Current is the product's on-hand stock as read from the store. For an edit
// of a persisted line of the same product, Previous holds the quantity that
// Current already reflects.
type AvailabilityCheck struct {
	Type        TransactionType
	ProductCode string
	Current     decimal.Decimal
	Requested   decimal.Decimal
	Previous    *decimal.Decimal
}

// CheckAvailability is the single availability rule shared by the entity
// hooks, request validation and the pre-commit guard.
//
// Outbound lines may not take more than is on hand. Inbound lines are only
// checked when an edit shrinks them: the reduction is itself a withdrawal
// from current stock. Transfers never change the total and pass.
func CheckAvailability(c AvailabilityCheck) error {
	switch {
	case c.Type.Outbound():
		available := c.Current
		if c.Previous != nil {
			available = available.Add(*c.Previous)
		}
		if c.Requested.GreaterThan(available) {
			return &InsufficientStockError{Product: c.ProductCode, Available: available, Requested: c.Requested}
		}
	case c.Type.Inbound():
		if c.Previous == nil || !c.Requested.LessThan(*c.Previous) {
			return nil
		}
		reduction := c.Previous.Sub(c.Requested)
		if reduction.GreaterThan(c.Current) {
			return &InsufficientStockError{Product: c.ProductCode, Available: c.Current, Requested: reduction}
		}
	}
	return nil
}

// CheckRemoval guards deleting inbound quantity that has already been
// consumed. Removing outbound or transfer lines can only raise stock.
func CheckRemoval(t TransactionType, productCode string, current, qty decimal.Decimal) error {
	if !t.Inbound() {
		return nil
	}
	if qty.GreaterThan(current) {
		return &InsufficientStockError{Product: productCode, Available: current, Requested: qty}
	}
	return nil
}
