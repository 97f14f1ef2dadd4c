package repository

import (
	"strings"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows product listings. Empty fields match everything.
type ProductFilter struct {
	Category string
	Unit     string
	Active   *bool
	Search   string
	Ordering string
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	Update(product *model.Product) error
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	ExistsByCode(code string, exclude uuid.UUID) (bool, error)
	FindAll(filter ProductFilter) ([]model.Product, error)
	LockByIDs(ids []uuid.UUID) ([]model.Product, error)
	CurrentStock(id uuid.UUID) (decimal.Decimal, error)
	StockLevels() (map[uuid.UUID]decimal.Decimal, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "code = ?", model.NormalizeCode(code)).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ExistsByCode(code string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.Model(&model.Product{}).Where("code = ?", model.NormalizeCode(code))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

var productOrderings = map[string]string{
	"product_code":  "code ASC",
	"-product_code": "code DESC",
	"product_name":  "name ASC",
	"-product_name": "name DESC",
	"created_at":    "created_at ASC",
	"-created_at":   "created_at DESC",
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Model(&model.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", strings.ToUpper(filter.Category))
	}
	if filter.Unit != "" {
		q = q.Where("unit_of_measure = ?", strings.ToUpper(filter.Unit))
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	order, ok := productOrderings[filter.Ordering]
	if !ok {
		order = "code ASC"
	}
	err := q.Order(order).Find(&products).Error
	return products, err
}

// LockByIDs loads the products with a row lock held until the surrounding
// transaction ends. Rows are locked in id order so writers touching several
// products cannot deadlock each other.
func (r *productRepo) LockByIDs(ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CurrentStock(id uuid.UUID) (decimal.Decimal, error) {
	movements, err := model.StockMovements(r.db, id)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.CurrentStock(movements), nil
}

type productMovement struct {
	ProductID uuid.UUID
	Type      ledger.TransactionType
	Quantity  decimal.Decimal
}

// StockLevels derives current stock for every product that has lines.
// Products without history are absent from the map, which reads as zero.
func (r *productRepo) StockLevels() (map[uuid.UUID]decimal.Decimal, error) {
	var rows []productMovement
	err := r.db.Table("stock_lines").
		Select("stock_lines.product_id AS product_id, stock_transactions.transaction_type AS type, stock_lines.quantity AS quantity").
		Joins("JOIN stock_transactions ON stock_transactions.id = stock_lines.stock_transaction_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	levels := make(map[uuid.UUID]decimal.Decimal)
	for _, row := range rows {
		levels[row.ProductID] = levels[row.ProductID].Add(ledger.Delta(row.Type, row.Quantity))
	}
	return levels, nil
}
