package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ValidationKind string

const (
	KindField      ValidationKind = "field"
	KindCrossField ValidationKind = "cross_field"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a write before anything is persisted.
type ValidationError struct {
	Kind   ValidationKind `json:"kind"`
	Fields []FieldError   `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// OrNil returns nil when no field error was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func NewFieldError(field, message string) *ValidationError {
	return (&ValidationError{Kind: KindField}).Add(field, message)
}

func NewCrossFieldError(field, message string) *ValidationError {
	return (&ValidationError{Kind: KindCrossField}).Add(field, message)
}

type InsufficientStockError struct {
	Product   string          `json:"product"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s. Available: %s, Requested: %s",
		e.Product, e.Available.String(), e.Requested.String())
}

type StateTransitionError struct {
	From   Status `json:"from"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (e *StateTransitionError) Error() string {
	return e.Reason
}
