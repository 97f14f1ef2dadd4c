package model

import (
	"strings"
	"time"

	"go-warehouse-inventory/internal/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockTransaction is the header of one inventory movement event.
type StockTransaction struct {
	BaseModel
	TransactionID   string                 `gorm:"type:varchar(20);uniqueIndex;not null" json:"transaction_id"`
	TransactionDate time.Time              `gorm:"not null;index" json:"transaction_date"`
	Type            ledger.TransactionType `gorm:"column:transaction_type;type:varchar(3);not null;index" json:"transaction_type"`
	ReferenceNumber *string                `gorm:"type:varchar(50)" json:"reference_number"`
	VendorCustomer  *string                `gorm:"type:varchar(100)" json:"vendor_customer"`
	Remarks         string                 `gorm:"type:text" json:"remarks"`
	Status          ledger.Status          `gorm:"type:varchar(10);not null;default:'DRAFT';index" json:"status"`
	TotalAmount     decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`

	Lines []StockLine `gorm:"foreignKey:StockTransactionID;constraint:OnDelete:CASCADE" json:"stock_details"`
}

// TypeDisplay and StatusDisplay feed the API representation.
func (t *StockTransaction) TypeDisplay() string   { return t.Type.Display() }
func (t *StockTransaction) StatusDisplay() string { return t.Status.Display() }

func (t *StockTransaction) BeforeSave(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = ledger.StatusDraft
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now()
	}
	return t.Validate(time.Now())
}

func (t *StockTransaction) BeforeCreate(tx *gorm.DB) error {
	if err := t.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if t.TransactionID != "" {
		return nil
	}
	id, err := ledger.NewTransactionID(time.Now(), func(candidate string) (bool, error) {
		var n int64
		err := tx.Model(&StockTransaction{}).Where("transaction_id = ?", candidate).Count(&n).Error
		return n > 0, err
	})
	if err != nil {
		return err
	}
	t.TransactionID = id
	return nil
}

// Validate checks the header fields against the clock at write time.
func (t *StockTransaction) Validate(now time.Time) error {
	errs := &ledger.ValidationError{Kind: ledger.KindField}
	if t.TransactionDate.After(now) {
		errs.Add("transaction_date", "Transaction date cannot be in the future.")
	}
	if !t.Type.Valid() {
		errs.Add("transaction_type", "Unknown transaction type.")
	}
	if !t.Status.Valid() {
		errs.Add("status", "Unknown transaction status.")
	}
	if t.ReferenceNumber != nil {
		ref := strings.TrimSpace(*t.ReferenceNumber)
		t.ReferenceNumber = &ref
		if len(ref) < 3 {
			errs.Add("reference_number", "Reference number must be at least 3 characters long.")
		}
	}
	if t.VendorCustomer != nil {
		name := strings.TrimSpace(*t.VendorCustomer)
		t.VendorCustomer = &name
		if len(name) < 2 {
			errs.Add("vendor_customer", "Vendor/Customer name must be at least 2 characters long.")
		}
	}
	return errs.OrNil()
}

// RecalculateTotal stores the sum of the header's line totals. Callers pass
// the transaction the line write ran in so both land together.
func RecalculateTotal(tx *gorm.DB, header *StockTransaction) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	if err := tx.Model(&StockLine{}).
		Where("stock_transaction_id = ?", header.ID).
		Pluck("total_cost", &totals).Error; err != nil {
		return decimal.Zero, err
	}
	total := ledger.HeaderTotal(totals)
	if err := tx.Model(&StockTransaction{}).
		Where("id = ?", header.ID).
		UpdateColumn("total_amount", total).Error; err != nil {
		return decimal.Zero, err
	}
	header.TotalAmount = total
	return total, nil
}
