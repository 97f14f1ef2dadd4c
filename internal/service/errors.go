package service

import (
	"errors"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/pkg/metrics"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("stock transaction not found")
	ErrLineNotFound        = errors.New("stock line not found")
	ErrDuplicateProduct    = errors.New("product code already exists")
	ErrDuplicateLine       = errors.New("transaction already has a line for this product and lot")
)

// Actor identifies the user performing a write.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// AuditName is the value stored in created_by / updated_by.
func (a Actor) AuditName() string {
	if a.ID == "" {
		return "system"
	}
	return a.ID
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// recordRejection counts a refused write by error kind.
func recordRejection(err error) {
	var (
		verr  *ledger.ValidationError
		stock *ledger.InsufficientStockError
		state *ledger.StateTransitionError
	)
	switch {
	case errors.As(err, &verr):
		metrics.Rejections.WithLabelValues(string(verr.Kind)).Inc()
	case errors.As(err, &stock):
		metrics.Rejections.WithLabelValues("insufficient_stock").Inc()
	case errors.As(err, &state):
		metrics.Rejections.WithLabelValues("state_transition").Inc()
	}
}
