package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportService interface {
	CurrentInventory(ctx context.Context, filter InventoryFilter) (*InventoryReport, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
	ProductMovements(ctx context.Context, productID uuid.UUID) ([]MovementEntry, error)
	MovementReport(ctx context.Context, from, to time.Time, productCode string) (*MovementReport, error)
}

type InventoryFilter struct {
	Category    string
	StockStatus string
}

type InventoryRow struct {
	ProductID           uuid.UUID         `json:"product_id"`
	ProductCode         string            `json:"product_code"`
	ProductName         string            `json:"product_name"`
	Category            model.Category    `json:"category"`
	CategoryDisplay     string            `json:"category_display"`
	Unit                model.Unit        `json:"unit_of_measure"`
	CurrentStock        decimal.Decimal   `json:"current_stock"`
	MinimumStockLevel   decimal.Decimal   `json:"minimum_stock_level"`
	MaximumStockLevel   decimal.Decimal   `json:"maximum_stock_level"`
	StandardCost        decimal.Decimal   `json:"standard_cost"`
	StockValue          decimal.Decimal   `json:"stock_value"`
	StockStatus         ledger.StockLevel `json:"stock_status"`
	LastTransactionDate *time.Time        `json:"last_transaction_date"`
}

type InventoryReport struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	Items         []InventoryRow  `json:"items"`
	TotalProducts int             `json:"total_products"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`
}

type LowStockItem struct {
	InventoryRow
	Shortage decimal.Decimal `json:"shortage"`
}

// MovementEntry is one line of a product's history with the balance after it.
type MovementEntry struct {
	repository.MovementRow
	Delta          decimal.Decimal `json:"delta"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

type ProductMovements struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductCode    string          `json:"product_code"`
	ProductName    string          `json:"product_name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Movements      []MovementEntry `json:"movements"`
}

type MovementReport struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Products  []ProductMovements `json:"products"`
}

type reportService struct {
	productRepo repository.ProductRepository
	reportRepo  repository.ReportRepository
	db          *gorm.DB
	now         func() time.Time
}

func NewReportService(pRepo repository.ProductRepository, rRepo repository.ReportRepository, db *gorm.DB) ReportService {
	return &reportService{
		productRepo: pRepo,
		reportRepo:  rRepo,
		db:          db,
		now:         time.Now,
	}
}

func (s *reportService) CurrentInventory(ctx context.Context, filter InventoryFilter) (*InventoryReport, error) {
	db := s.db.WithContext(ctx)
	products := s.productRepo.WithTx(db)
	reports := s.reportRepo.WithTx(db)

	// 1. Active products in the requested category
	active := true
	list, err := products.FindAll(repository.ProductFilter{Category: filter.Category, Active: &active})
	if err != nil {
		return nil, err
	}

	// 2. Derived stock and last movement per product
	levels, err := products.StockLevels()
	if err != nil {
		return nil, err
	}
	lastDates, err := reports.LastTransactionDates()
	if err != nil {
		return nil, err
	}

	// 3. Rows, filtered on the derived status
	wantStatus := ledger.StockLevel(strings.ToUpper(filter.StockStatus))
	report := &InventoryReport{
		GeneratedAt: s.now().UTC(),
		Items:       []InventoryRow{},
		TotalValue:  decimal.Zero,
	}
	for _, p := range list {
		row := inventoryRow(p, levels[p.ID], lastDates)
		if wantStatus != "" && row.StockStatus != wantStatus {
			continue
		}
		report.Items = append(report.Items, row)
		report.TotalValue = report.TotalValue.Add(row.StockValue)
		if row.StockStatus == ledger.StockLow {
			report.LowStockCount++
		}
	}
	report.TotalProducts = len(report.Items)
	return report, nil
}

func inventoryRow(p model.Product, current decimal.Decimal, lastDates map[uuid.UUID]time.Time) InventoryRow {
	row := InventoryRow{
		ProductID:         p.ID,
		ProductCode:       p.Code,
		ProductName:       p.Name,
		Category:          p.Category,
		CategoryDisplay:   p.Category.Display(),
		Unit:              p.UnitOfMeasure,
		CurrentStock:      current,
		MinimumStockLevel: p.MinimumStockLevel,
		MaximumStockLevel: p.MaximumStockLevel,
		StandardCost:      p.StandardCost,
		StockValue:        current.Mul(p.StandardCost),
		StockStatus:       ledger.Level(current, p.MinimumStockLevel, p.MaximumStockLevel),
	}
	if last, ok := lastDates[p.ID]; ok {
		row.LastTransactionDate = &last
	}
	return row
}

// LowStock lists active products below their minimum, largest shortage first.
func (s *reportService) LowStock(ctx context.Context) ([]LowStockItem, error) {
	report, err := s.CurrentInventory(ctx, InventoryFilter{StockStatus: string(ledger.StockLow)})
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(report.Items))
	for _, row := range report.Items {
		items = append(items, LowStockItem{
			InventoryRow: row,
			Shortage:     row.MinimumStockLevel.Sub(row.CurrentStock),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Shortage.GreaterThan(items[j].Shortage)
	})
	return items, nil
}

// ProductMovements replays the product's full history oldest to newest and
// returns it newest first.
func (s *reportService) ProductMovements(ctx context.Context, productID uuid.UUID) ([]MovementEntry, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.productRepo.WithTx(db).FindByID(productID); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	rows, err := s.reportRepo.WithTx(db).MovementRows(repository.MovementFilter{ProductID: &productID})
	if err != nil {
		return nil, err
	}

	entries := replay(decimal.Zero, rows)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// MovementReport covers whole days from..to. Each product's running balance
// starts from its stock at the beginning of from.
func (s *reportService) MovementReport(ctx context.Context, from, to time.Time, productCode string) (*MovementReport, error) {
	start := startOfDay(from)
	end := startOfDay(to).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if end.Before(start) {
		return nil, ledger.NewCrossFieldError("end_date", "End date cannot be before start date.")
	}

	db := s.db.WithContext(ctx)
	reports := s.reportRepo.WithTx(db)

	filter := repository.MovementFilter{From: &start, To: &end}
	if productCode != "" {
		product, err := s.productRepo.WithTx(db).FindByCode(productCode)
		if err != nil {
			return nil, notFound(err, ErrProductNotFound)
		}
		filter.ProductID = &product.ID
	}

	rows, err := reports.MovementRows(filter)
	if err != nil {
		return nil, err
	}
	prior, err := reports.MovementRows(repository.MovementFilter{ProductID: filter.ProductID, Before: &start})
	if err != nil {
		return nil, err
	}

	// Opening balance per product from everything before the range
	opening := make(map[uuid.UUID]decimal.Decimal)
	for _, r := range prior {
		opening[r.ProductID] = opening[r.ProductID].Add(ledger.Delta(r.Type, r.Quantity))
	}

	report := &MovementReport{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Products:  []ProductMovements{},
	}
	for _, group := range groupByProduct(rows) {
		first := group[0]
		open := opening[first.ProductID]
		entries := replay(open, group)
		report.Products = append(report.Products, ProductMovements{
			ProductID:      first.ProductID,
			ProductCode:    first.ProductCode,
			ProductName:    first.ProductName,
			OpeningBalance: open,
			ClosingBalance: entries[len(entries)-1].RunningBalance,
			Movements:      entries,
		})
	}
	return report, nil
}

func replay(opening decimal.Decimal, rows []repository.MovementRow) []MovementEntry {
	movements := make([]ledger.Movement, len(rows))
	for i, r := range rows {
		movements[i] = ledger.Movement{Type: r.Type, Quantity: r.Quantity}
	}
	balances := ledger.RunningBalances(opening, movements)

	entries := make([]MovementEntry, len(rows))
	for i, r := range rows {
		entries[i] = MovementEntry{
			MovementRow:    r,
			Delta:          ledger.Delta(r.Type, r.Quantity),
			RunningBalance: balances[i],
		}
	}
	return entries
}

// groupByProduct splits rows already ordered by product into runs.
func groupByProduct(rows []repository.MovementRow) [][]repository.MovementRow {
	var groups [][]repository.MovementRow
	for i := 0; i < len(rows); {
		j := i
		for j < len(rows) && rows[j].ProductID == rows[i].ProductID {
			j++
		}
		groups = append(groups, rows[i:j])
		i = j
	}
	return groups
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
