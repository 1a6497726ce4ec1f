package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// exportMaxRows tope de filas de una exportación XLSX.
const exportMaxRows = 10000

// MovementQueryUseCase lecturas del libro de movimientos (solo lectura, idempotente).
type MovementQueryUseCase struct {
	stockRepo repository.StockItemRepository
	movRepo   repository.StockMovementRepository
	exporter  MovementExporter
	now       func() time.Time
}

// NewMovementQueryUseCase construye el caso de uso. exporter puede ser nil si no se exporta.
func NewMovementQueryUseCase(
	stockRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	exporter MovementExporter,
) *MovementQueryUseCase {
	return &MovementQueryUseCase{stockRepo: stockRepo, movRepo: movRepo, exporter: exporter, now: time.Now}
}

// ListMovements devuelve los movimientos del ítem, más recientes primero.
func (uc *MovementQueryUseCase) ListMovements(ctx context.Context, stockItemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	if _, err := uc.item(ctx, stockItemID); err != nil {
		return nil, err
	}
	return uc.movRepo.ListByStockItem(ctx, stockItemID, from, to, limit, offset)
}

// ExportMovements genera el XLSX del libro del ítem en el rango dado.
func (uc *MovementQueryUseCase) ExportMovements(ctx context.Context, stockItemID string, from, to *time.Time) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportador de movimientos no configurado")
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	item, err := uc.item(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	// Corte fijo para que las páginas no se desplacen con movimientos nuevos
	if to == nil {
		now := uc.now()
		to = &now
	}
	movs := make([]*entity.StockMovement, 0, repository.MaxPageSize)
	for len(movs) < exportMaxRows {
		page, err := uc.movRepo.ListByStockItem(ctx, stockItemID, from, to, repository.MaxPageSize, len(movs))
		if err != nil {
			return nil, err
		}
		movs = append(movs, page...)
		if len(page) < repository.MaxPageSize {
			break
		}
	}
	if len(movs) > exportMaxRows {
		movs = movs[:exportMaxRows]
	}
	return uc.exporter.ExportMovements(ctx, item, movs)
}

func (uc *MovementQueryUseCase) item(ctx context.Context, id string) (*entity.StockItem, error) {
	item, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	return item, nil
}
