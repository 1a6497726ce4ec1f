// Package xlsx exporta el libro de movimientos a Excel.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

const sheetName = "Movimientos"

var _ inventory.MovementExporter = (*MovementExporter)(nil)

var movementHeaders = []string{
	"Fecha", "Tipo", "Antes", "Cambio", "Después", "Razón", "Proveedor", "Actor",
}

// MovementExporter implementa inventory.MovementExporter con excelize.
type MovementExporter struct{}

// NewMovementExporter construye el exportador.
func NewMovementExporter() *MovementExporter { return &MovementExporter{} }

// ExportMovements escribe una hoja con el encabezado del ítem y una fila por movimiento.
func (e *MovementExporter) ExportMovements(_ context.Context, item *entity.StockItem, movements []*entity.StockMovement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	summary := [][]any{
		{"Stock item", item.Ref().String()},
		{"Cantidad actual", item.Quantity},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: resumen fila %d: %w", i+1, err)
		}
	}

	const headerRow = 4
	headers := make([]any, len(movementHeaders))
	for i, h := range movementHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", headerRow), &headers); err != nil {
		return nil, fmt.Errorf("xlsx: encabezados: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetRowStyle(sheetName, headerRow, headerRow, bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezados: %w", err)
	}

	for i, m := range movements {
		r := headerRow + 1 + i
		supplier := ""
		if m.SupplierID != nil {
			supplier = *m.SupplierID
		}
		values := []any{
			m.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			string(m.ChangeType),
			m.QuantityBefore,
			m.QuantityChange,
			m.QuantityAfter,
			m.Reason,
			supplier,
			m.ActorID,
		}
		start, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheetName, start, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", r, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}
