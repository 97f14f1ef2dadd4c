package service

import (
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ProductRequest struct {
	ProductCode       string          `json:"product_code" validate:"required,min=3,max=20"`
	ProductName       string          `json:"product_name" validate:"required,min=3,max=100"`
	Description       string          `json:"description"`
	Category          string          `json:"category" validate:"omitempty,oneof=RAW WIP FIN CON"`
	UnitOfMeasure     string          `json:"unit_of_measure" validate:"omitempty,oneof=PCS KG LTR MTR BOX SET"`
	MinimumStockLevel decimal.Decimal `json:"minimum_stock_level" validate:"dgte0,dscale=2"`
	MaximumStockLevel decimal.Decimal `json:"maximum_stock_level" validate:"dgte0,dscale=2"`
	StandardCost      decimal.Decimal `json:"standard_cost" validate:"dgte0,dscale=2"`
	IsActive          *bool           `json:"is_active"`
}

func (r *ProductRequest) apply(p *model.Product) {
	p.Code = r.ProductCode
	p.Name = r.ProductName
	p.Description = r.Description
	p.Category = model.Category(r.Category)
	p.UnitOfMeasure = model.Unit(r.UnitOfMeasure)
	p.MinimumStockLevel = r.MinimumStockLevel
	p.MaximumStockLevel = r.MaximumStockLevel
	p.StandardCost = r.StandardCost
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

// LineRequest identifies the product either by id or by code.
type LineRequest struct {
	ProductID      uuid.UUID       `json:"product"`
	ProductCode    string          `json:"product_code" validate:"omitempty,max=20"`
	Quantity       decimal.Decimal `json:"quantity" validate:"dgt0,dscale=2"`
	UnitCost       decimal.Decimal `json:"unit_cost" validate:"dgte0,dscale=2"`
	LotBatchNumber string          `json:"lot_batch_number" validate:"max=50"`
	ExpiryDate     string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Location       *string         `json:"location" validate:"omitempty,max=50"`
	Remarks        string          `json:"remarks"`
}

func (r *LineRequest) expiry() *time.Time {
	if r.ExpiryDate == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, r.ExpiryDate)
	if err != nil {
		return nil
	}
	return &t
}

func (r *LineRequest) apply(l *model.StockLine, productID uuid.UUID) {
	l.ProductID = productID
	l.Quantity = r.Quantity
	l.UnitCost = r.UnitCost
	l.LotBatchNumber = r.LotBatchNumber
	l.ExpiryDate = r.expiry()
	l.Location = r.Location
	l.Remarks = r.Remarks
}

type TransactionRequest struct {
	TransactionDate *time.Time             `json:"transaction_date"`
	Type            ledger.TransactionType `json:"transaction_type" validate:"required,oneof=IN OUT ADJ TRF"`
	ReferenceNumber *string                `json:"reference_number" validate:"omitempty,min=3,max=50"`
	VendorCustomer  *string                `json:"vendor_customer" validate:"omitempty,min=2,max=100"`
	Remarks         string                 `json:"remarks"`
	Status          ledger.Status          `json:"status" validate:"omitempty,oneof=DRAFT PENDING COMPLETED CANCELLED"`
	Lines           []LineRequest          `json:"stock_details" validate:"required,min=1,dive"`
}

// HeaderRequest carries the header fields that may change after creation.
// Nil fields are left as they are. The type is fixed once lines exist, so a
// different value is rejected rather than ignored.
type HeaderRequest struct {
	TransactionDate *time.Time             `json:"transaction_date"`
	Type            ledger.TransactionType `json:"transaction_type"`
	ReferenceNumber *string                `json:"reference_number" validate:"omitempty,min=3,max=50"`
	VendorCustomer  *string                `json:"vendor_customer" validate:"omitempty,min=2,max=100"`
	Remarks         *string                `json:"remarks"`
}

func (r *HeaderRequest) apply(h *model.StockTransaction) error {
	if r.Type != "" && r.Type != h.Type {
		return ledger.NewFieldError("transaction_type", "Transaction type cannot be changed.")
	}
	if r.TransactionDate != nil {
		h.TransactionDate = r.TransactionDate.UTC()
	}
	if r.ReferenceNumber != nil {
		h.ReferenceNumber = r.ReferenceNumber
	}
	if r.VendorCustomer != nil {
		h.VendorCustomer = r.VendorCustomer
	}
	if r.Remarks != nil {
		h.Remarks = *r.Remarks
	}
	return nil
}

// ProductDetail is a product with its derived stock figures.
type ProductDetail struct {
	model.Product
	CategoryDisplay string            `json:"category_display"`
	UnitDisplay     string            `json:"unit_of_measure_display"`
	CurrentStock    decimal.Decimal   `json:"current_stock"`
	StockStatus     ledger.StockLevel `json:"stock_status"`
}

func newProductDetail(p model.Product, current decimal.Decimal) ProductDetail {
	return ProductDetail{
		Product:         p,
		CategoryDisplay: p.Category.Display(),
		UnitDisplay:     p.UnitOfMeasure.Display(),
		CurrentStock:    current,
		StockStatus:     ledger.Level(current, p.MinimumStockLevel, p.MaximumStockLevel),
	}
}

// TransactionDetail adds display names to a header.
type TransactionDetail struct {
	*model.StockTransaction
	TypeDisplay   string `json:"transaction_type_display"`
	StatusDisplay string `json:"status_display"`
}

func newTransactionDetail(h *model.StockTransaction) TransactionDetail {
	return TransactionDetail{
		StockTransaction: h,
		TypeDisplay:      h.TypeDisplay(),
		StatusDisplay:    h.StatusDisplay(),
	}
}
