package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/testutil"
)

func newAlerts(store *testutil.Store) *inventory.AlertUseCase {
	return inventory.NewAlertUseCase(store.Alerts(), store.StockItems(), zerolog.Nop())
}

func TestAlertCreate(t *testing.T) {
	store := testutil.NewStore()
	item := store.AddStockItem("gorra", "", 15)
	alerts := newAlerts(store)
	ctx := context.Background()

	_, err := alerts.Create(ctx, item.ID, -1, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = alerts.Create(ctx, "no-existe", 5, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a, err := alerts.Create(ctx, item.ID, 10, nil)
	require.NoError(t, err)
	assert.False(t, a.Notified)

	_, err = alerts.Create(ctx, item.ID, 3, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAlertCreate_YaBajoUmbralNaceNotificada(t *testing.T) {
	store := testutil.NewStore()
	item := store.AddStockItem("gorra", "", 4)
	notified := false

	a, err := newAlerts(store).Create(context.Background(), item.ID, 4, &notified)
	require.NoError(t, err)
	assert.True(t, a.Notified)
}

func TestAlertUpdateDeleteYListado(t *testing.T) {
	store := testutil.NewStore()
	low := store.AddStockItem("a", "", 1)
	high := store.AddStockItem("b", "", 100)
	alerts := newAlerts(store)
	ctx := context.Background()

	_, err := alerts.Create(ctx, low.ID, 5, nil)
	require.NoError(t, err)
	_, err = alerts.Create(ctx, high.ID, 5, nil)
	require.NoError(t, err)

	triggered, err := alerts.ListTriggered(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, triggered, 1)
	assert.Equal(t, low.ID, triggered[0].StockItemID)

	// El operador limpia la bandera; cambiar el umbral no la reevalúa
	off := false
	threshold := int64(50)
	a, err := alerts.Update(ctx, low.ID, &threshold, &off)
	require.NoError(t, err)
	assert.False(t, a.Notified)
	assert.Equal(t, int64(50), a.Threshold)

	neg := int64(-2)
	_, err = alerts.Update(ctx, low.ID, &neg, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = alerts.Update(ctx, "x", &threshold, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, alerts.Delete(ctx, low.ID))
	assert.ErrorIs(t, alerts.Delete(ctx, low.ID), domain.ErrNotFound)
	_, err = alerts.Get(ctx, low.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
