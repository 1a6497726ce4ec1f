package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de stock (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByStockItem(ctx context.Context, stockItemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
