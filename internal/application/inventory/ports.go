package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de stock: cantidad + movimiento (+ alerta) o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.StockAlertRepository,
	) error) error
}

// MovementExporter genera el archivo descargable del libro de un ítem.
type MovementExporter interface {
	ExportMovements(ctx context.Context, item *entity.StockItem, movements []*entity.StockMovement) ([]byte, error)
}
