package service

import (
	"context"
	"testing"
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ctx = context.Background()

var clerk = Actor{ID: "7d1c1b9e-2f4a-4c55-9a77-0a3c5e4f1b20", Name: "Clerk", Email: "clerk@example.com"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	db        *gorm.DB
	products  ProductService
	stock     StockService
	reports   ReportService
	dashboard DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	reportRepo := repository.NewReportRepo(db)
	reports := NewReportService(productRepo, reportRepo, db)

	return &fixture{
		db:        db,
		products:  NewProductService(productRepo, db, nil, nil),
		stock:     NewStockService(productRepo, stockRepo, reportRepo, db, nil, nil),
		reports:   reports,
		dashboard: NewDashboardService(reports, reportRepo, db, 7),
	}
}

func (f *fixture) product(t *testing.T, code string, minimum, maximum string) *ProductDetail {
	t.Helper()
	p, err := f.products.CreateProduct(ctx, &ProductRequest{
		ProductCode:       code,
		ProductName:       "Product " + code,
		MinimumStockLevel: d(minimum),
		MaximumStockLevel: d(maximum),
		StandardCost:      d("2.00"),
	}, clerk)
	require.NoError(t, err)
	return p
}

func (f *fixture) move(typ ledger.TransactionType, at *time.Time, lines ...LineRequest) (*TransactionDetail, error) {
	return f.stock.CreateTransaction(ctx, &TransactionRequest{
		TransactionDate: at,
		Type:            typ,
		Lines:           lines,
	}, clerk)
}

func (f *fixture) mustMove(t *testing.T, typ ledger.TransactionType, at *time.Time, lines ...LineRequest) *TransactionDetail {
	t.Helper()
	tx, err := f.move(typ, at, lines...)
	require.NoError(t, err)
	return tx
}

func (f *fixture) stockOf(t *testing.T, p *ProductDetail) decimal.Decimal {
	t.Helper()
	detail, err := f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	return detail.CurrentStock
}

func (f *fixture) headerCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.StockTransaction{}).Count(&n).Error)
	return n
}

func (f *fixture) lineCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.StockLine{}).Count(&n).Error)
	return n
}

// storedTotal sums total_amount over every header in the store.
func (f *fixture) storedTotal(t *testing.T) decimal.Decimal {
	t.Helper()
	var totals []decimal.Decimal
	require.NoError(t, f.db.Model(&model.StockTransaction{}).Pluck("total_amount", &totals).Error)
	sum := decimal.Zero
	for _, v := range totals {
		sum = sum.Add(v)
	}
	return sum
}

func line(p *ProductDetail, qty, cost string) LineRequest {
	return LineRequest{ProductID: p.ID, Quantity: d(qty), UnitCost: d(cost)}
}

// daysAgo is noon UTC n days before today.
func daysAgo(n int) *time.Time {
	t := startOfDay(time.Now()).AddDate(0, 0, -n).Add(12 * time.Hour)
	return &t
}
