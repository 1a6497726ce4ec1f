package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
)

func TestGeneratePurchaseOrderPDF(t *testing.T) {
	variant := "talla-m"
	expected := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	po := &entity.PurchaseOrder{
		OrderNumber:  "PO-20261015-0001",
		Status:       entity.POStatusConfirmed,
		OrderDate:    time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		ExpectedDate: &expected,
		Tax:          decimal.RequireFromString("1.50"),
		Shipping:     decimal.RequireFromString("4.00"),
		Notes:        "Entregar en bodega norte",
		Items: []entity.PurchaseOrderItem{
			{ProductID: "camiseta", VariantID: &variant, Quantity: 2, UnitCost: decimal.RequireFromString("3.25")},
			{ProductID: "gorra", Quantity: 3, ReceivedQuantity: 1, UnitCost: decimal.RequireFromString("10")},
		},
	}
	po.RecalculateTotals()
	supplier := &entity.Supplier{Name: "Textiles Andinos", Email: "ventas@textiles.test"}

	out, err := pdf.NewMarotoPDFGenerator("Tienda").GeneratePurchaseOrderPDF(context.Background(), po, supplier)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}
