package main

import (
	"bytes"
	"testing"
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInventory(t *testing.T) {
	last := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	report := &service.InventoryReport{
		Items: []service.InventoryRow{{
			ProductCode:         "P-100",
			ProductName:         "Hex bolt",
			Category:            "RAW",
			Unit:                "PCS",
			CurrentStock:        decimal.NewFromInt(4),
			MinimumStockLevel:   decimal.NewFromInt(10),
			StandardCost:        decimal.RequireFromString("2.5"),
			StockValue:          decimal.NewFromInt(10),
			StockStatus:         ledger.StockLow,
			LastTransactionDate: &last,
		}},
		TotalProducts: 1,
		TotalValue:    decimal.NewFromInt(10),
		LowStockCount: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, renderInventory(&buf, report))
	out := buf.String()
	assert.Contains(t, out, "P-100")
	assert.Contains(t, out, "2026-03-02")
	assert.Contains(t, out, "10.00")
	assert.Contains(t, out, "Low stock: 1")
}

func TestRenderMovements(t *testing.T) {
	report := &service.MovementReport{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-02",
		Products: []service.ProductMovements{{
			ProductCode:    "P-100",
			ProductName:    "Hex bolt",
			OpeningBalance: decimal.NewFromInt(10),
			ClosingBalance: decimal.NewFromInt(7),
			Movements: []service.MovementEntry{{
				MovementRow: repository.MovementRow{
					TransactionID:   "TXN202603011234",
					TransactionDate: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
					Type:            ledger.TxOut,
					Quantity:        decimal.NewFromInt(3),
				},
				Delta:          decimal.NewFromInt(-3),
				RunningBalance: decimal.NewFromInt(7),
			}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderMovements(&buf, report))
	out := buf.String()
	assert.Contains(t, out, "opening 10")
	assert.Contains(t, out, "TXN202603011234")
	assert.Contains(t, out, "-3")
}

func TestReportMovementsRequiresRange(t *testing.T) {
	rootCmd.SetArgs([]string{"report", "movements", "--from", "2026-03-01"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}
