package service

import (
	"testing"

	"go-warehouse-inventory/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-100", "5", "0")
	f.product(t, "P-200", "0", "0")
	f.mustMove(t, ledger.TxIn, daysAgo(30), line(p, "4", "1"))
	_, err := f.stock.CreateTransaction(ctx, &TransactionRequest{
		TransactionDate: daysAgo(1),
		Type:            ledger.TxIn,
		Status:          ledger.StatusPending,
		Lines:           []LineRequest{line(p, "1", "1")},
	}, clerk)
	require.NoError(t, err)

	stats, err := f.dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalTransactions)
	assert.EqualValues(t, 1, stats.RecentTransactions)
	assert.EqualValues(t, 1, stats.PendingTransactions)
	assert.Equal(t, 0, stats.LowStockCount)
	assert.True(t, d("10").Equal(stats.TotalStockValue), stats.TotalStockValue.String())
	assert.Equal(t, 7, stats.RecentWindowDays)
}

func TestGetStockMovement_DailyBuckets(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-100", "0", "0")
	f.mustMove(t, ledger.TxIn, daysAgo(10), line(p, "50", "1"))
	f.mustMove(t, ledger.TxIn, daysAgo(5), line(p, "10", "1"))
	f.mustMove(t, ledger.TxOut, daysAgo(2), line(p, "3", "1"))
	f.mustMove(t, ledger.TxTransfer, daysAgo(2), line(p, "7", "1"))
	f.mustMove(t, ledger.TxAdjustment, daysAgo(1), line(p, "2", "1"))

	buckets, err := f.dashboard.GetStockMovement(ctx, 7)
	require.NoError(t, err)
	require.Len(t, buckets, 7)

	byDate := make(map[string]StockMovementData)
	for _, b := range buckets {
		byDate[b.Date] = b
	}
	assert.Equal(t, daysAgo(6).Format(dateLayout), buckets[0].Date)
	assert.True(t, d("10").Equal(byDate[daysAgo(5).Format(dateLayout)].Inbound))
	assert.True(t, d("3").Equal(byDate[daysAgo(2).Format(dateLayout)].Outbound))
	assert.True(t, byDate[daysAgo(2).Format(dateLayout)].Inbound.IsZero())
	assert.True(t, d("2").Equal(byDate[daysAgo(1).Format(dateLayout)].Inbound))
	assert.True(t, byDate[daysAgo(3).Format(dateLayout)].Inbound.IsZero())
	assert.True(t, byDate[daysAgo(3).Format(dateLayout)].Outbound.IsZero())
}
