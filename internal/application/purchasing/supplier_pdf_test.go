package purchasing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func TestSupplierDelete_ProtegidoSiTieneReferencias(t *testing.T) {
	f := newFixture()
	uc := purchasing.NewSupplierUseCase(f.store.Suppliers(), zerolog.Nop())
	ctx := context.Background()

	f.confirmedOrder(t, 1)
	err := uc.Delete(ctx, f.supplier.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	free := f.store.AddSupplier("Sin pedidos")
	got, err := uc.Get(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sin pedidos", got.Name)
	require.NoError(t, uc.Delete(ctx, free.ID))

	_, err = uc.Get(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, free.ID), domain.ErrNotFound)
}

type fakePDF struct {
	gotOrder    *entity.PurchaseOrder
	gotSupplier *entity.Supplier
	err         error
}

func (f *fakePDF) GeneratePurchaseOrderPDF(_ context.Context, po *entity.PurchaseOrder, s *entity.Supplier) ([]byte, error) {
	f.gotOrder, f.gotSupplier = po, s
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func TestRenderPDF(t *testing.T) {
	f := newFixture()
	f.store.AddStockItem("gorra", "", 0)
	po, err := f.orders.CreateOrder(context.Background(), "buyer", dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: "gorra", Quantity: 2, UnitCost: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	gen := &fakePDF{}
	uc := purchasing.NewPDFUseCase(f.store.PurchaseOrders(), f.store.Suppliers(), gen)

	pdf, name, err := uc.RenderPDF(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "orden_compra_"+po.OrderNumber+".pdf", name)
	require.NotNil(t, gen.gotOrder)
	assert.Len(t, gen.gotOrder.Items, 1)
	assert.Equal(t, f.supplier.ID, gen.gotSupplier.ID)

	_, _, err = uc.RenderPDF(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	gen.err = errors.New("fuente no disponible")
	_, _, err = uc.RenderPDF(context.Background(), po.ID)
	assert.ErrorContains(t, err, "fuente no disponible")
}

// staleReferences simula una referencia creada entre la verificación y el borrado.
type staleReferences struct {
	repository.SupplierRepository
}

func (staleReferences) HasReferences(context.Context, string) (bool, error) { return false, nil }

func TestSupplierDelete_ReferenciaConcurrenteEsConflicto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.confirmedOrder(t, 1)
	uc := purchasing.NewSupplierUseCase(staleReferences{f.store.Suppliers()}, zerolog.Nop())

	err := uc.Delete(ctx, f.supplier.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := uc.Get(ctx, f.supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, f.supplier.ID, got.ID)
}
