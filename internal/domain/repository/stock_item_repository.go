package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockItemRepository define el puerto para leer/actualizar el stock por producto o variante.
// Usado dentro de transacciones para garantizar consistencia. Los Get devuelven (nil, nil) si no existe.
type StockItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByRef(ctx context.Context, ref entity.StockItemRef) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int64, at time.Time) error
}
