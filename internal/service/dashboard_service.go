package service

import (
	"context"
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetStockMovement(ctx context.Context, days int) ([]StockMovementData, error)
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts       int64           `json:"total_products"`
	TotalTransactions   int64           `json:"total_transactions"`
	LowStockCount       int             `json:"low_stock_count"`
	TotalStockValue     decimal.Decimal `json:"total_stock_value"`
	RecentTransactions  int64           `json:"recent_transactions"`
	PendingTransactions int64           `json:"pending_transactions"`
	RecentWindowDays    int             `json:"recent_window_days"`
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string          `json:"date"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

type dashboardService struct {
	reports    ReportService
	reportRepo repository.ReportRepository
	db         *gorm.DB
	recentDays int
	now        func() time.Time
}

func NewDashboardService(reports ReportService, rRepo repository.ReportRepository, db *gorm.DB, recentDays int) DashboardService {
	if recentDays <= 0 {
		recentDays = 7
	}
	return &dashboardService{
		reports:    reports,
		reportRepo: rRepo,
		db:         db,
		recentDays: recentDays,
		now:        time.Now,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	repo := s.reportRepo.WithTx(s.db.WithContext(ctx))
	stats := &DashboardStats{RecentWindowDays: s.recentDays}

	// Inventory figures come from the same snapshot as the inventory report
	inventory, err := s.reports.CurrentInventory(ctx, InventoryFilter{})
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = int64(inventory.TotalProducts)
	stats.LowStockCount = inventory.LowStockCount
	stats.TotalStockValue = inventory.TotalValue

	if stats.TotalTransactions, err = repo.CountTransactions(repository.TransactionFilter{}); err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -s.recentDays)
	if stats.RecentTransactions, err = repo.CountTransactions(repository.TransactionFilter{From: &since}); err != nil {
		return nil, err
	}

	if stats.PendingTransactions, err = repo.CountTransactions(repository.TransactionFilter{Status: string(ledger.StatusPending)}); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetStockMovement returns one bucket per day for the trailing window,
// oldest first, including days without movement.
func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]StockMovementData, error) {
	if days <= 0 {
		days = s.recentDays
	}
	end := s.now().UTC()
	start := startOfDay(end).AddDate(0, 0, -(days - 1))

	rows, err := s.reportRepo.WithTx(s.db.WithContext(ctx)).MovementRows(repository.MovementFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}

	buckets := make([]StockMovementData, days)
	index := make(map[string]int, days)
	for i := range buckets {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		buckets[i] = StockMovementData{Date: date, Inbound: decimal.Zero, Outbound: decimal.Zero}
		index[date] = i
	}

	for _, r := range rows {
		i, ok := index[r.TransactionDate.UTC().Format(dateLayout)]
		if !ok {
			continue
		}
		delta := ledger.Delta(r.Type, r.Quantity)
		switch {
		case delta.IsPositive():
			buckets[i].Inbound = buckets[i].Inbound.Add(delta)
		case delta.IsNegative():
			buckets[i].Outbound = buckets[i].Outbound.Add(delta.Neg())
		}
	}
	return buckets, nil
}
