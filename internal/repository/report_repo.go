package repository

import (
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementRow is one stock line flattened with its header and product.
type MovementRow struct {
	LineID          uuid.UUID              `json:"line_id"`
	ProductID       uuid.UUID              `json:"product_id"`
	ProductCode     string                 `json:"product_code"`
	ProductName     string                 `json:"product_name"`
	HeaderID        uuid.UUID              `json:"transaction_uuid"`
	TransactionID   string                 `json:"transaction_id"`
	TransactionDate time.Time              `json:"transaction_date"`
	Type            ledger.TransactionType `json:"transaction_type"`
	Status          ledger.Status          `json:"status"`
	ReferenceNumber *string                `json:"reference_number"`
	Quantity        decimal.Decimal        `json:"quantity"`
	UnitCost        decimal.Decimal        `json:"unit_cost"`
	TotalCost       decimal.Decimal        `json:"total_cost"`
	LotBatchNumber  string                 `json:"lot_batch_number"`
	Location        *string                `json:"location"`
	CreatedAt       time.Time              `json:"created_at"`
}

// MovementFilter bounds a movement query. Zero values are unbounded.
type MovementFilter struct {
	ProductID *uuid.UUID
	From      *time.Time
	To        *time.Time
	Before    *time.Time
}

type ReportRepository interface {
	WithTx(tx *gorm.DB) ReportRepository
	MovementRows(filter MovementFilter) ([]MovementRow, error)
	LastTransactionDates() (map[uuid.UUID]time.Time, error)
	CountTransactions(filter TransactionFilter) (int64, error)
	TransactionTotals(filter TransactionFilter) ([]model.StockTransaction, error)
	CountProducts(activeOnly bool) (int64, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) WithTx(tx *gorm.DB) ReportRepository {
	return &reportRepo{tx}
}

// MovementRows returns lines in replay order: product code, then
// transaction date, then insertion order.
func (r *reportRepo) MovementRows(filter MovementFilter) ([]MovementRow, error) {
	var rows []MovementRow
	q := r.db.Table("stock_lines").
		Select(`stock_lines.id AS line_id,
			products.id AS product_id,
			products.code AS product_code,
			products.name AS product_name,
			stock_transactions.id AS header_id,
			stock_transactions.transaction_id AS transaction_id,
			stock_transactions.transaction_date AS transaction_date,
			stock_transactions.transaction_type AS type,
			stock_transactions.status AS status,
			stock_transactions.reference_number AS reference_number,
			stock_lines.quantity AS quantity,
			stock_lines.unit_cost AS unit_cost,
			stock_lines.total_cost AS total_cost,
			stock_lines.lot_batch_number AS lot_batch_number,
			stock_lines.location AS location,
			stock_lines.created_at AS created_at`).
		Joins("JOIN stock_transactions ON stock_transactions.id = stock_lines.stock_transaction_id").
		Joins("JOIN products ON products.id = stock_lines.product_id")

	if filter.ProductID != nil {
		q = q.Where("stock_lines.product_id = ?", *filter.ProductID)
	}
	if filter.From != nil {
		q = q.Where("stock_transactions.transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("stock_transactions.transaction_date <= ?", *filter.To)
	}
	if filter.Before != nil {
		q = q.Where("stock_transactions.transaction_date < ?", *filter.Before)
	}

	err := q.Order("products.code ASC").
		Order("stock_transactions.transaction_date ASC").
		Order("stock_lines.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

type lastDateRow struct {
	ProductID       uuid.UUID
	TransactionDate time.Time
}

// LastTransactionDates maps each product to the date of its latest line.
func (r *reportRepo) LastTransactionDates() (map[uuid.UUID]time.Time, error) {
	var rows []lastDateRow
	err := r.db.Table("stock_lines").
		Select("stock_lines.product_id AS product_id, stock_transactions.transaction_date AS transaction_date").
		Joins("JOIN stock_transactions ON stock_transactions.id = stock_lines.stock_transaction_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	last := make(map[uuid.UUID]time.Time, len(rows))
	for _, row := range rows {
		if row.TransactionDate.After(last[row.ProductID]) {
			last[row.ProductID] = row.TransactionDate
		}
	}
	return last, nil
}

func (r *reportRepo) headerQuery(filter TransactionFilter) *gorm.DB {
	q := r.db.Model(&model.StockTransaction{})
	if filter.Type != "" {
		q = q.Where("transaction_type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("transaction_date <= ?", *filter.To)
	}
	return q
}

func (r *reportRepo) CountTransactions(filter TransactionFilter) (int64, error) {
	var count int64
	err := r.headerQuery(filter).Count(&count).Error
	return count, err
}

// TransactionTotals loads the kind, status and total of matching headers.
func (r *reportRepo) TransactionTotals(filter TransactionFilter) ([]model.StockTransaction, error) {
	var headers []model.StockTransaction
	err := r.headerQuery(filter).
		Select("id", "transaction_type", "status", "total_amount", "transaction_date").
		Find(&headers).Error
	return headers, err
}

func (r *reportRepo) CountProducts(activeOnly bool) (int64, error) {
	var count int64
	q := r.db.Model(&model.Product{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Count(&count).Error
	return count, err
}
