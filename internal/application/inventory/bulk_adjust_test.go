package inventory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/testutil"
)

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newBulk(store *testutil.Store, max int) *inventory.BulkAdjustUseCase {
	return inventory.NewBulkAdjustUseCase(newLedger(store), store.StockItems(), max, zerolog.Nop())
}

func TestApplyBatch_ToleraFallosParciales(t *testing.T) {
	store := testutil.NewStore()
	ids := make([]string, 0, 5)
	items := make([]inventory.BulkItem, 0, 5)
	for i := 1; i <= 5; i++ {
		product := fmt.Sprintf("p%d", i)
		if i == 3 {
			product = "desconocido"
		} else {
			ids = append(ids, store.AddStockItem(product, "", 10).ID)
		}
		items = append(items, inventory.BulkItem{
			Ref:        entity.StockItemRef{ProductID: product},
			Quantity:   qty("2"),
			ChangeType: string(entity.ChangeTypeRestock),
		})
	}

	res, err := newBulk(store, 0).ApplyBatch(context.Background(), inventory.BulkInput{Items: items, ActorID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.False(t, res.Success())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Index)
	assert.Equal(t, "NOT_FOUND", res.Errors[0].Code)
	assert.Equal(t, "desconocido", res.Errors[0].Ref.ProductID)

	for _, id := range ids {
		assert.Equal(t, int64(12), store.Quantity(id))
		movs := store.MovementsOf(id)
		require.Len(t, movs, 1)
		assert.Equal(t, inventory.DefaultBulkReason, movs[0].Reason)
	}
}

func TestApplyBatch_ValidacionPorItem(t *testing.T) {
	store := testutil.NewStore()
	a := store.AddStockItem("a", "", 3)
	store.AddStockItem("b", "", 3)

	items := []inventory.BulkItem{
		{Ref: entity.StockItemRef{ProductID: "a"}, Quantity: qty("1"), ChangeType: "SALE", Reason: "conteo"},
		{Ref: entity.StockItemRef{ProductID: "b"}, Quantity: qty("1.5"), ChangeType: "SALE"},
		{Ref: entity.StockItemRef{ProductID: "b"}, Quantity: qty("-1"), ChangeType: "SALE"},
		{Ref: entity.StockItemRef{ProductID: "b"}, Quantity: nil, ChangeType: "SALE"},
		{Ref: entity.StockItemRef{ProductID: "b"}, Quantity: qty("1"), ChangeType: "LOST"},
		{Ref: entity.StockItemRef{ProductID: "a"}, Quantity: qty("9"), ChangeType: "DAMAGE"},
	}
	res, err := newBulk(store, 0).ApplyBatch(context.Background(), inventory.BulkInput{Items: items, ActorID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 5, res.Failed)
	codes := map[int]string{}
	for _, e := range res.Errors {
		codes[e.Index] = e.Code
	}
	assert.Equal(t, map[int]string{
		1: "INVALID_INPUT",
		2: "INVALID_INPUT",
		3: "INVALID_INPUT",
		4: "INVALID_INPUT",
		5: "INSUFFICIENT_STOCK",
	}, codes)
	assert.Equal(t, int64(2), store.Quantity(a.ID))
	assert.Equal(t, "conteo", store.MovementsOf(a.ID)[0].Reason)
}

func TestApplyBatch_TodosExitosos(t *testing.T) {
	store := testutil.NewStore()
	store.AddStockItem("a", "", 3)
	res, err := newBulk(store, 0).ApplyBatch(context.Background(), inventory.BulkInput{
		Items:   []inventory.BulkItem{{Ref: entity.StockItemRef{ProductID: "a"}, Quantity: qty("3"), ChangeType: "SALE"}},
		ActorID: "u1",
	})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Empty(t, res.Errors)
}

func TestApplyBatch_ErroresDeLlamada(t *testing.T) {
	store := testutil.NewStore()
	store.AddStockItem("a", "", 3)
	bulk := newBulk(store, 2)
	ctx := context.Background()
	item := inventory.BulkItem{Ref: entity.StockItemRef{ProductID: "a"}, Quantity: qty("1"), ChangeType: "SALE"}

	_, err := bulk.ApplyBatch(ctx, inventory.BulkInput{ActorID: "u1"})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)

	_, err = bulk.ApplyBatch(ctx, inventory.BulkInput{Items: []inventory.BulkItem{item, item, item}, ActorID: "u1"})
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)

	missing := "sin-proveedor"
	_, err = bulk.ApplyBatch(ctx, inventory.BulkInput{Items: []inventory.BulkItem{item}, SupplierID: &missing, ActorID: "u1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, store.MovementCount())
}

func TestApplyBatch_LimitePorDefecto(t *testing.T) {
	store := testutil.NewStore()
	store.AddStockItem("a", "", 1000)
	items := make([]inventory.BulkItem, inventory.DefaultBatchMaxItems+1)
	for i := range items {
		items[i] = inventory.BulkItem{Ref: entity.StockItemRef{ProductID: "a"}, Quantity: qty("1"), ChangeType: "SALE"}
	}
	_, err := newBulk(store, 0).ApplyBatch(context.Background(), inventory.BulkInput{Items: items, ActorID: "u1"})
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)

	res, err := newBulk(store, 0).ApplyBatch(context.Background(), inventory.BulkInput{Items: items[:100], ActorID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Succeeded)
}

func TestApplyBatch_ProveedorQuedaEnMovimientos(t *testing.T) {
	store := testutil.NewStore()
	item := store.AddStockItem("a", "", 0)
	sup := store.AddSupplier("Proveedor")

	_, err := newBulk(store, 0).ApplyBatch(context.Background(), inventory.BulkInput{
		Items:      []inventory.BulkItem{{Ref: entity.StockItemRef{ProductID: "a"}, Quantity: qty("5"), ChangeType: "RESTOCK"}},
		SupplierID: &sup.ID,
		ActorID:    "u1",
	})
	require.NoError(t, err)
	movs := store.MovementsOf(item.ID)
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].SupplierID)
	assert.Equal(t, sup.ID, *movs[0].SupplierID)
}

func TestApplyBatch_RechazaCantidadFueraDeRango(t *testing.T) {
	store := testutil.NewStore()
	item := store.AddStockItem("gorra", "", 0)

	res, err := newBulk(store, 0).ApplyBatch(context.Background(), inventory.BulkInput{
		Items: []inventory.BulkItem{{
			Ref:        entity.StockItemRef{ProductID: "gorra"},
			Quantity:   qty("18446744073709551621"),
			ChangeType: string(entity.ChangeTypeRestock),
		}},
		ActorID: "u1",
	})
	require.NoError(t, err)

	assert.Zero(t, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "INVALID_INPUT", res.Errors[0].Code)
	assert.Zero(t, store.Quantity(item.ID))
	assert.Empty(t, store.MovementsOf(item.ID))
}
