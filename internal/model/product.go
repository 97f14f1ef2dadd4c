package model

import (
	"fmt"
	"strings"

	"go-warehouse-inventory/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryRaw        Category = "RAW"
	CategoryWIP        Category = "WIP"
	CategoryFinished   Category = "FIN"
	CategoryConsumable Category = "CON"
)

var categoryNames = map[Category]string{
	CategoryRaw:        "Raw Material",
	CategoryWIP:        "Work in Progress",
	CategoryFinished:   "Finished Goods",
	CategoryConsumable: "Consumables",
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) Display() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

type Unit string

const (
	UnitPieces    Unit = "PCS"
	UnitKilograms Unit = "KG"
	UnitLiters    Unit = "LTR"
	UnitMeters    Unit = "MTR"
	UnitBoxes     Unit = "BOX"
	UnitSets      Unit = "SET"
)

var unitNames = map[Unit]string{
	UnitPieces:    "Pieces",
	UnitKilograms: "Kilograms",
	UnitLiters:    "Liters",
	UnitMeters:    "Meters",
	UnitBoxes:     "Boxes",
	UnitSets:      "Sets",
}

func (u Unit) Valid() bool {
	_, ok := unitNames[u]
	return ok
}

func (u Unit) Display() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return string(u)
}

// Product is the product master. On-hand stock is never stored here; it is
// derived from the stock lines on every read (see CurrentStock).
type Product struct {
	BaseModel
	Code              string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"product_code"`
	Name              string          `gorm:"type:varchar(100);not null" json:"product_name"`
	Description       string          `gorm:"type:text" json:"description"`
	Category          Category        `gorm:"type:varchar(3);not null;default:'FIN'" json:"category"`
	UnitOfMeasure     Unit            `gorm:"type:varchar(3);not null;default:'PCS'" json:"unit_of_measure"`
	MinimumStockLevel decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"minimum_stock_level"`
	MaximumStockLevel decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"maximum_stock_level"`
	StandardCost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"standard_cost"`
	IsActive          bool            `gorm:"not null;default:true" json:"is_active"`
}

var placesMessage = fmt.Sprintf("Ensure that there are no more than %d decimal places.", ledger.Places)

// NormalizeCode is the canonical form of a product code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// BeforeSave runs on every create and update.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Code = NormalizeCode(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	if p.Category == "" {
		p.Category = CategoryFinished
	}
	if p.UnitOfMeasure == "" {
		p.UnitOfMeasure = UnitPieces
	}
	return p.Validate()
}

// Validate checks the product fields that the store itself does not enforce.
func (p *Product) Validate() error {
	errs := &ledger.ValidationError{Kind: ledger.KindField}
	if len(p.Code) < 3 {
		errs.Add("product_code", "Product code must be at least 3 characters long.")
	}
	if len(p.Name) < 3 {
		errs.Add("product_name", "Product name must be at least 3 characters long.")
	}
	if !p.Category.Valid() {
		errs.Add("category", "Unknown product category.")
	}
	if !p.UnitOfMeasure.Valid() {
		errs.Add("unit_of_measure", "Unknown unit of measure.")
	}
	for field, v := range map[string]decimal.Decimal{
		"minimum_stock_level": p.MinimumStockLevel,
		"maximum_stock_level": p.MaximumStockLevel,
		"standard_cost":       p.StandardCost,
	} {
		switch {
		case v.IsNegative():
			errs.Add(field, "Value cannot be negative.")
		case !ledger.WithinPlaces(v):
			errs.Add(field, placesMessage)
		}
	}
	if err := errs.OrNil(); err != nil {
		return err
	}

	if p.MinimumStockLevel.IsPositive() && p.MaximumStockLevel.IsPositive() &&
		p.MinimumStockLevel.GreaterThan(p.MaximumStockLevel) {
		return ledger.NewCrossFieldError("minimum_stock_level",
			"Minimum stock level cannot be greater than maximum stock level.")
	}
	return nil
}

// CurrentStock derives the on-hand quantity from the product's stock lines.
func (p *Product) CurrentStock(db *gorm.DB) (decimal.Decimal, error) {
	movements, err := StockMovements(db, p.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.CurrentStock(movements), nil
}

// StockMovements lists the kind and quantity of every line of a product.
func StockMovements(db *gorm.DB, productID uuid.UUID) ([]ledger.Movement, error) {
	var movements []ledger.Movement
	err := db.Table("stock_lines").
		Select("stock_transactions.transaction_type AS type, stock_lines.quantity AS quantity").
		Joins("JOIN stock_transactions ON stock_transactions.id = stock_lines.stock_transaction_id").
		Where("stock_lines.product_id = ?", productID).
		Scan(&movements).Error
	return movements, err
}
