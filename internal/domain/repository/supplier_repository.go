package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SupplierRepository define el puerto mínimo de proveedores que necesita el libro de stock.
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	// HasReferences indica si algún movimiento u orden de compra referencia al proveedor.
	HasReferences(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
