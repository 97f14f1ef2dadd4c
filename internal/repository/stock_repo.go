package repository

import (
	"strings"
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionFilter narrows header listings.
type TransactionFilter struct {
	Type      string
	Status    string
	CreatedBy string
	Search    string
	From      *time.Time
	To        *time.Time
}

// LineFilter narrows line listings.
type LineFilter struct {
	HeaderID  *uuid.UUID
	ProductID *uuid.UUID
	Type      string
	Category  string
	Location  string
	Search    string
}

type StockRepository interface {
	WithTx(tx *gorm.DB) StockRepository
	CreateHeader(header *model.StockTransaction) error
	CreateLine(line *model.StockLine) error
	SaveLine(line *model.StockLine) error
	FindByID(id uuid.UUID) (*model.StockTransaction, error)
	LockHeader(id uuid.UUID) (*model.StockTransaction, error)
	FindAll(filter TransactionFilter) ([]model.StockTransaction, error)
	FindLine(id uuid.UUID) (*model.StockLine, error)
	FindLines(filter LineFilter) ([]model.StockLine, error)
	UpdateHeader(header *model.StockTransaction) error
	UpdateStatus(id uuid.UUID, status ledger.Status, updatedBy string) error
	DeleteLine(id uuid.UUID) error
	DeleteHeader(id uuid.UUID) error
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) WithTx(tx *gorm.DB) StockRepository {
	return &stockRepo{tx}
}

// CreateHeader inserts the header only; lines go through CreateLine so each
// one passes the line hooks.
func (r *stockRepo) CreateHeader(header *model.StockTransaction) error {
	return r.db.Omit(clause.Associations).Create(header).Error
}

func (r *stockRepo) CreateLine(line *model.StockLine) error {
	return r.db.Omit(clause.Associations).Create(line).Error
}

func (r *stockRepo) SaveLine(line *model.StockLine) error {
	return r.db.Omit(clause.Associations).Save(line).Error
}

func (r *stockRepo) FindByID(id uuid.UUID) (*model.StockTransaction, error) {
	var header model.StockTransaction
	err := r.db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Lines.Product").
		First(&header, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

// LockHeader loads a header without its lines and holds a row lock on it
// until the surrounding transaction ends.
func (r *stockRepo) LockHeader(id uuid.UUID) (*model.StockTransaction, error) {
	var header model.StockTransaction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&header, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *stockRepo) FindAll(filter TransactionFilter) ([]model.StockTransaction, error) {
	var headers []model.StockTransaction
	q := r.db.Model(&model.StockTransaction{})
	if filter.Type != "" {
		q = q.Where("transaction_type = ?", strings.ToUpper(filter.Type))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", strings.ToUpper(filter.Status))
	}
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.From != nil {
		q = q.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("transaction_date <= ?", *filter.To)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(transaction_id) LIKE ? OR LOWER(reference_number) LIKE ? OR LOWER(vendor_customer) LIKE ?", like, like, like)
	}
	err := q.Order("transaction_date DESC").Order("created_at DESC").Find(&headers).Error
	return headers, err
}

func (r *stockRepo) FindLine(id uuid.UUID) (*model.StockLine, error) {
	var line model.StockLine
	if err := r.db.Preload("Product").First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *stockRepo) FindLines(filter LineFilter) ([]model.StockLine, error) {
	var lines []model.StockLine
	q := r.db.Model(&model.StockLine{}).
		Joins("JOIN stock_transactions ON stock_transactions.id = stock_lines.stock_transaction_id").
		Joins("JOIN products ON products.id = stock_lines.product_id")
	if filter.HeaderID != nil {
		q = q.Where("stock_lines.stock_transaction_id = ?", *filter.HeaderID)
	}
	if filter.ProductID != nil {
		q = q.Where("stock_lines.product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("stock_transactions.transaction_type = ?", strings.ToUpper(filter.Type))
	}
	if filter.Category != "" {
		q = q.Where("products.category = ?", strings.ToUpper(filter.Category))
	}
	if filter.Location != "" {
		q = q.Where("stock_lines.location = ?", filter.Location)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(products.code) LIKE ? OR LOWER(products.name) LIKE ? OR LOWER(stock_lines.lot_batch_number) LIKE ?", like, like, like)
	}
	err := q.Preload("Product").
		Order("stock_transactions.transaction_date DESC").
		Order("stock_lines.created_at DESC").
		Find(&lines).Error
	return lines, err
}

// UpdateHeader writes the descriptive header fields. Type, status and the
// total are owned by other operations.
func (r *stockRepo) UpdateHeader(header *model.StockTransaction) error {
	return r.db.Model(header).
		Select("transaction_date", "reference_number", "vendor_customer", "remarks", "updated_by").
		Updates(header).Error
}

func (r *stockRepo) UpdateStatus(id uuid.UUID, status ledger.Status, updatedBy string) error {
	return r.db.Model(&model.StockTransaction{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *stockRepo) DeleteLine(id uuid.UUID) error {
	return r.db.Delete(&model.StockLine{}, "id = ?", id).Error
}

// DeleteHeader removes the lines first so the delete does not depend on the
// store honouring ON DELETE CASCADE.
func (r *stockRepo) DeleteHeader(id uuid.UUID) error {
	if err := r.db.Where("stock_transaction_id = ?", id).Delete(&model.StockLine{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.StockTransaction{}, "id = ?", id).Error
}
