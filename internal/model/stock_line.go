package model

import (
	"errors"
	"fmt"
	"time"

	"go-warehouse-inventory/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockLine is one product/quantity/cost entry of a stock transaction.
type StockLine struct {
	BaseModel
	StockTransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_line_header_product_lot,priority:1" json:"stock_transaction_id"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_line_header_product_lot,priority:2" json:"product_id"`
	Product            *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_cost"`
	TotalCost          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_cost"`
	LotBatchNumber     string          `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_line_header_product_lot,priority:3" json:"lot_batch_number"`
	ExpiryDate         *time.Time      `gorm:"type:date" json:"expiry_date"`
	Location           *string         `gorm:"type:varchar(50);index" json:"location"`
	Remarks            string          `gorm:"type:text" json:"remarks"`
}

var ErrHeaderNotFound = errors.New("stock transaction not found")

// BeforeSave derives the line total and enforces the entity-level rules,
// including stock availability, on every create and update.
func (l *StockLine) BeforeSave(tx *gorm.DB) error {
	l.TotalCost = ledger.LineTotal(l.Quantity, l.UnitCost)
	if err := l.ValidateFields(time.Now()); err != nil {
		return err
	}
	return l.checkAvailability(tx)
}

// AfterSave keeps the header total in step with its lines.
func (l *StockLine) AfterSave(tx *gorm.DB) error {
	_, err := RecalculateTotal(tx, &StockTransaction{BaseModel: BaseModel{ID: l.StockTransactionID}})
	return err
}

// ValidateFields checks single-field constraints of the line.
func (l *StockLine) ValidateFields(now time.Time) error {
	errs := &ledger.ValidationError{Kind: ledger.KindField}
	switch {
	case !l.Quantity.IsPositive():
		errs.Add("quantity", "Quantity must be greater than zero.")
	case !ledger.WithinPlaces(l.Quantity):
		errs.Add("quantity", placesMessage)
	}
	switch {
	case l.UnitCost.IsNegative():
		errs.Add("unit_cost", "Unit cost cannot be negative.")
	case !ledger.WithinPlaces(l.UnitCost):
		errs.Add("unit_cost", placesMessage)
	}
	if l.ExpiryDate != nil && ExpiredOn(*l.ExpiryDate, now) {
		errs.Add("expiry_date", "Expiry date cannot be in the past.")
	}
	return errs.OrNil()
}

// ExpiredOn compares calendar dates only.
func ExpiredOn(expiry, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := expiry.Date()
	return time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).Before(today)
}

func (l *StockLine) checkAvailability(tx *gorm.DB) error {
	var header StockTransaction
	if err := tx.Select("id", "transaction_type").First(&header, "id = ?", l.StockTransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHeaderNotFound
		}
		return err
	}

	var previous *StockLine
	if l.ID != uuid.Nil {
		var existing StockLine
		err := tx.Select("id", "product_id", "quantity").First(&existing, "id = ?", l.ID).Error
		switch {
		case err == nil:
			previous = &existing
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
	}

	product, current, err := loadStock(tx, l.ProductID)
	if err != nil {
		return err
	}

	check := ledger.AvailabilityCheck{
		Type:        header.Type,
		ProductCode: product.Code,
		Current:     current,
		Requested:   l.Quantity,
	}
	if previous != nil && previous.ProductID == l.ProductID {
		check.Previous = &previous.Quantity
	}
	if err := ledger.CheckAvailability(check); err != nil {
		return err
	}

	// Moving a line to another product removes its quantity from the old one.
	if previous != nil && previous.ProductID != l.ProductID {
		old, oldStock, err := loadStock(tx, previous.ProductID)
		if err != nil {
			return err
		}
		return ledger.CheckRemoval(header.Type, old.Code, oldStock, previous.Quantity)
	}
	return nil
}

func loadStock(tx *gorm.DB, productID uuid.UUID) (*Product, decimal.Decimal, error) {
	var product Product
	if err := tx.Select("id", "code").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, ledger.NewFieldError("product", "Product does not exist.")
		}
		return nil, decimal.Zero, fmt.Errorf("load product: %w", err)
	}
	current, err := product.CurrentStock(tx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return &product, current, nil
}
