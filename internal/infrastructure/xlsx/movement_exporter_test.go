package xlsx_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xlsx"
)

func TestExportMovements(t *testing.T) {
	supplier := "sup-1"
	item := &entity.StockItem{ID: "si-1", ProductID: "gorra", Quantity: 9}
	movs := []*entity.StockMovement{
		{ChangeType: entity.ChangeTypeSale, QuantityBefore: 15, QuantityChange: -6, QuantityAfter: 9, Reason: "venta", ActorID: "u1", CreatedAt: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)},
		{ChangeType: entity.ChangeTypeRestock, QuantityBefore: 10, QuantityChange: 5, QuantityAfter: 15, SupplierID: &supplier, ActorID: "u1", CreatedAt: time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)},
	}

	out, err := xlsx.NewMovementExporter().ExportMovements(context.Background(), item, movs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Movimientos")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "gorra", rows[0][1])
	assert.Equal(t, "Tipo", rows[3][1])
	assert.Equal(t, []string{"2026-10-15 10:00:00", "SALE", "15", "-6", "9", "venta", "", "u1"}, rows[4])
	assert.Equal(t, "sup-1", rows[5][6])
}

func TestExportMovements_PropagaErroresDeCelda(t *testing.T) {
	// excelize limita una celda a 32767 caracteres
	item := &entity.StockItem{ID: "si-1", ProductID: strings.Repeat("x", excelize.TotalCellChars+1)}

	_, err := xlsx.NewMovementExporter().ExportMovements(context.Background(), item, nil)
	assert.ErrorIs(t, err, excelize.ErrCellCharsLength)
}
