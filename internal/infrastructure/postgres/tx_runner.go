package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ purchasing.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción del libro de stock: ítem, movimiento y alerta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockItemRepository(tx), NewStockMovementRepository(tx), NewStockAlertRepository(tx))
	})
}

// RunPurchasing transacción de órdenes de compra con el consecutivo.
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewPurchaseOrderRepository(tx), NewSequenceRepository(tx))
	})
}

// RunReceipt transacción de recepción de una línea: orden + libro de stock.
func (r *TxRunner) RunReceipt(ctx context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	stockRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewPurchaseOrderRepository(tx),
			NewStockItemRepository(tx),
			NewStockMovementRepository(tx),
			NewStockAlertRepository(tx),
		)
	})
}

// inTx inicia la transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
