package purchasing

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta funciones dentro de una transacción con repos ligados a ella.
type TxRunner interface {
	// RunPurchasing para crear órdenes (consecutivo + cabecera + líneas).
	RunPurchasing(ctx context.Context, fn func(
		orderRepo repository.PurchaseOrderRepository,
		seqRepo repository.SequenceRepository,
	) error) error
	// RunReceipt para recibir una línea: guarda de recepción + movimiento RESTOCK en la misma tx.
	RunReceipt(ctx context.Context, fn func(
		orderRepo repository.PurchaseOrderRepository,
		stockRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.StockAlertRepository,
	) error) error
}

// StockLedger integración con el libro de stock.
// RecordInTx usa los repositorios del caller (misma transacción); si retorna error el caller hace rollback.
type StockLedger interface {
	RecordInTx(
		ctx context.Context,
		stockRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.StockAlertRepository,
		stockItemID string,
		in inventory.MovementInput,
	) (*inventory.MovementResult, error)
	ReportCommitted(res *inventory.MovementResult)
}

// Locker serializa operaciones por clave (una recepción a la vez por orden).
// Acquire devuelve domain.ErrInvalidState si la clave sigue tomada al agotar los reintentos.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// PurchaseOrderPDFGenerator genera la representación imprimible de una orden.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, po *entity.PurchaseOrder, supplier *entity.Supplier) ([]byte, error)
}
