package service

import (
	"testing"
	"time"

	"go-warehouse-inventory/internal/ledger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentInventory(t *testing.T) {
	f := newFixture(t)
	low := f.product(t, "A-100", "10", "50")
	normal := f.product(t, "B-200", "1", "50")
	high := f.product(t, "C-300", "0", "5")
	f.mustMove(t, ledger.TxIn, daysAgo(1), line(low, "4", "1"), line(normal, "20", "1"), line(high, "8", "1"))

	report, err := f.reports.CurrentInventory(ctx, InventoryFilter{})
	require.NoError(t, err)
	require.Len(t, report.Items, 3)
	assert.Equal(t, 3, report.TotalProducts)
	assert.Equal(t, 1, report.LowStockCount)
	// standard cost is 2.00 for every product
	assert.True(t, d("64").Equal(report.TotalValue), report.TotalValue.String())

	byCode := make(map[string]InventoryRow)
	for _, r := range report.Items {
		byCode[r.ProductCode] = r
	}
	assert.Equal(t, ledger.StockLow, byCode["A-100"].StockStatus)
	assert.Equal(t, ledger.StockNormal, byCode["B-200"].StockStatus)
	assert.Equal(t, ledger.StockHigh, byCode["C-300"].StockStatus)
	require.NotNil(t, byCode["B-200"].LastTransactionDate)
	assert.Equal(t, daysAgo(1).Format(dateLayout), byCode["B-200"].LastTransactionDate.UTC().Format(dateLayout))

	onlyHigh, err := f.reports.CurrentInventory(ctx, InventoryFilter{StockStatus: "high"})
	require.NoError(t, err)
	require.Len(t, onlyHigh.Items, 1)
	assert.Equal(t, "C-300", onlyHigh.Items[0].ProductCode)
}

func TestCurrentInventory_SkipsInactiveProducts(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A-100", "0", "0")
	f.product(t, "B-200", "0", "0")
	require.NoError(t, f.products.DeactivateProduct(ctx, p.ID, clerk))

	report, err := f.reports.CurrentInventory(ctx, InventoryFilter{})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "B-200", report.Items[0].ProductCode)
	assert.Nil(t, report.Items[0].LastTransactionDate)
}

func TestLowStock_LargestShortageFirst(t *testing.T) {
	f := newFixture(t)
	small := f.product(t, "A-100", "5", "0")
	big := f.product(t, "B-200", "20", "0")
	f.product(t, "C-300", "0", "0")
	f.mustMove(t, ledger.TxIn, daysAgo(1), line(small, "3", "1"), line(big, "4", "1"))

	items, err := f.reports.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B-200", items[0].ProductCode)
	assert.True(t, d("16").Equal(items[0].Shortage))
	assert.Equal(t, "A-100", items[1].ProductCode)
	assert.True(t, d("2").Equal(items[1].Shortage))
}

func TestProductMovements_NewestFirst(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-100", "0", "0")
	f.mustMove(t, ledger.TxIn, daysAgo(3), line(p, "10", "1"))
	f.mustMove(t, ledger.TxOut, daysAgo(2), line(p, "4", "1"))
	f.mustMove(t, ledger.TxAdjustment, daysAgo(1), line(p, "1", "1"))

	entries, err := f.reports.ProductMovements(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ledger.TxAdjustment, entries[0].Type)
	assert.True(t, d("7").Equal(entries[0].RunningBalance))
	assert.True(t, d("-4").Equal(entries[1].Delta))
	assert.True(t, d("6").Equal(entries[1].RunningBalance))
	assert.True(t, d("10").Equal(entries[2].RunningBalance))
	assert.True(t, entries[0].RunningBalance.Equal(f.stockOf(t, p)))

	_, err = f.reports.ProductMovements(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMovementReport_OpeningBalance(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-100", "0", "0")
	q := f.product(t, "Q-200", "0", "0")
	f.mustMove(t, ledger.TxIn, daysAgo(5), line(p, "10", "1"), line(q, "2", "1"))
	f.mustMove(t, ledger.TxOut, daysAgo(2), line(p, "3", "1"))
	f.mustMove(t, ledger.TxIn, daysAgo(1), line(p, "5", "1"))

	report, err := f.reports.MovementReport(ctx, *daysAgo(2), *daysAgo(1), "")
	require.NoError(t, err)
	assert.Equal(t, daysAgo(2).Format(dateLayout), report.StartDate)
	assert.Equal(t, daysAgo(1).Format(dateLayout), report.EndDate)

	// Q-200 has no movement inside the range.
	require.Len(t, report.Products, 1)
	pm := report.Products[0]
	assert.Equal(t, "P-100", pm.ProductCode)
	assert.True(t, d("10").Equal(pm.OpeningBalance))
	require.Len(t, pm.Movements, 2)
	assert.True(t, d("7").Equal(pm.Movements[0].RunningBalance))
	assert.True(t, d("12").Equal(pm.Movements[1].RunningBalance))
	assert.True(t, d("12").Equal(pm.ClosingBalance))
}

func TestMovementReport_SingleProductAndBadRange(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-100", "0", "0")
	q := f.product(t, "Q-200", "0", "0")
	f.mustMove(t, ledger.TxIn, daysAgo(1), line(p, "10", "1"), line(q, "2", "1"))

	report, err := f.reports.MovementReport(ctx, *daysAgo(1), *daysAgo(1), "q-200")
	require.NoError(t, err)
	require.Len(t, report.Products, 1)
	assert.Equal(t, "Q-200", report.Products[0].ProductCode)

	_, err = f.reports.MovementReport(ctx, *daysAgo(1), *daysAgo(1), "NOPE")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.reports.MovementReport(ctx, *daysAgo(1), *daysAgo(3), "")
	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_date", verr.Fields[0].Field)
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := startOfDay(time.Date(2026, 5, 1, 3, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), got)
}
