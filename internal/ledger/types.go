package ledger

import "github.com/shopspring/decimal"

type TransactionType string

const (
	TxIn         TransactionType = "IN"
	TxOut        TransactionType = "OUT"
	TxAdjustment TransactionType = "ADJ"
	TxTransfer   TransactionType = "TRF"
)

var transactionTypeNames = map[TransactionType]string{
	TxIn:         "Stock In",
	TxOut:        "Stock Out",
	TxAdjustment: "Adjustment",
	TxTransfer:   "Transfer",
}

// Valid reports whether t is one of the known transaction kinds.
func (t TransactionType) Valid() bool {
	_, ok := transactionTypeNames[t]
	return ok
}

func (t TransactionType) Display() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// Outbound is true for kinds that take stock out of the warehouse.
func (t TransactionType) Outbound() bool {
	return t == TxOut
}

// Inbound is true for kinds whose lines add to on-hand stock.
func (t TransactionType) Inbound() bool {
	return t == TxIn || t == TxAdjustment
}

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var statusNames = map[Status]string{
	StatusDraft:     "Draft",
	StatusPending:   "Pending",
	StatusCompleted: "Completed",
	StatusCancelled: "Cancelled",
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) Display() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// Movement is one signed-by-kind quantity in a product's history.
type Movement struct {
	Type     TransactionType
	Quantity decimal.Decimal
}
