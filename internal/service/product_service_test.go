package service

import (
	"testing"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	p, err := f.products.CreateProduct(ctx, &ProductRequest{
		ProductCode:   " p-100 ",
		ProductName:   "Hex bolt",
		Category:      "RAW",
		UnitOfMeasure: "KG",
		StandardCost:  d("1.25"),
	}, clerk)
	require.NoError(t, err)
	assert.Equal(t, "P-100", p.Code)
	assert.True(t, p.IsActive)
	assert.Equal(t, "Raw Material", p.CategoryDisplay)
	assert.Equal(t, "Kilograms", p.UnitDisplay)
	assert.True(t, p.CurrentStock.IsZero())
	assert.Equal(t, clerk.ID, p.CreatedBy)

	_, err = f.products.CreateProduct(ctx, &ProductRequest{ProductCode: "P-100", ProductName: "Other"}, clerk)
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestCreateProduct_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.products.CreateProduct(ctx, &ProductRequest{ProductCode: "P1", ProductName: "Hex bolt"}, clerk)
	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "product_code", verr.Fields[0].Field)

	_, err = f.products.CreateProduct(ctx, &ProductRequest{
		ProductCode:       "P-100",
		ProductName:       "Hex bolt",
		MinimumStockLevel: d("10"),
		MaximumStockLevel: d("5"),
	}, clerk)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ledger.KindCrossField, verr.Kind)

	_, err = f.products.CreateProduct(ctx, &ProductRequest{
		ProductCode:  "P-100",
		ProductName:  "Hex bolt",
		StandardCost: d("0.125"),
	}, clerk)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "standard_cost", verr.Fields[0].Field)
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-100", "0", "0")
	other := f.product(t, "P-200", "0", "0")
	f.mustMove(t, ledger.TxIn, nil, line(p, "3", "1"))

	updated, err := f.products.UpdateProduct(ctx, p.ID, &ProductRequest{
		ProductCode:       "P-100",
		ProductName:       "Renamed",
		MinimumStockLevel: d("5"),
	}, clerk)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, d("3").Equal(updated.CurrentStock))
	assert.Equal(t, ledger.StockLow, updated.StockStatus)

	_, err = f.products.UpdateProduct(ctx, other.ID, &ProductRequest{ProductCode: "p-100", ProductName: "Clash"}, clerk)
	assert.ErrorIs(t, err, ErrDuplicateProduct)

	_, err = f.products.UpdateProduct(ctx, uuid.New(), &ProductRequest{ProductCode: "P-900", ProductName: "Ghost"}, clerk)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProducts_Filters(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A-100", "0", "0")
	f.product(t, "B-200", "0", "0")
	f.mustMove(t, ledger.TxIn, nil, line(a, "4", "1"))
	require.NoError(t, f.products.DeactivateProduct(ctx, a.ID, clerk))

	all, err := f.products.GetProducts(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A-100", all[0].Code)
	assert.True(t, d("4").Equal(all[0].CurrentStock))

	active := true
	onlyActive, err := f.products.GetProducts(ctx, repository.ProductFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "B-200", onlyActive[0].Code)

	desc, err := f.products.GetProducts(ctx, repository.ProductFilter{Ordering: "-product_code"})
	require.NoError(t, err)
	assert.Equal(t, "B-200", desc[0].Code)

	found, err := f.products.GetProducts(ctx, repository.ProductFilter{Search: "a-1"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestDeactivateProduct_KeepsHistory(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-100", "0", "0")
	f.mustMove(t, ledger.TxIn, nil, line(p, "4", "1"))

	require.NoError(t, f.products.DeactivateProduct(ctx, p.ID, clerk))

	got, err := f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.True(t, d("4").Equal(got.CurrentStock))

	assert.ErrorIs(t, f.products.DeactivateProduct(ctx, uuid.New(), clerk), ErrProductNotFound)
}
