package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos (solo INSERT y SELECT).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (
			id, stock_item_id, product_id, variant_id, change_type,
			quantity_before, quantity_after, quantity_change,
			reason, supplier_id, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StockItemID, m.ProductID, m.VariantID, string(m.ChangeType),
		m.QuantityBefore, m.QuantityAfter, m.QuantityChange,
		m.Reason, m.SupplierID, m.ActorID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByStockItem lista movimientos del ítem (más recientes primero), filtrando por rango opcional.
func (r *StockMovementRepo) ListByStockItem(ctx context.Context, stockItemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	limit, offset = pageArgs(limit, offset)
	var b strings.Builder
	b.WriteString(`
		SELECT id, stock_item_id, product_id, variant_id, change_type,
			quantity_before, quantity_after, quantity_change,
			reason, supplier_id, actor_id, created_at
		FROM stock_movements WHERE stock_item_id = $1`)
	args := []any{stockItemID}
	if from != nil {
		args = append(args, *from)
		fmt.Fprintf(&b, " AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		fmt.Fprintf(&b, " AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&b, " ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var ct string
		if err := rows.Scan(
			&m.ID, &m.StockItemID, &m.ProductID, &m.VariantID, &ct,
			&m.QuantityBefore, &m.QuantityAfter, &m.QuantityChange,
			&m.Reason, &m.SupplierID, &m.ActorID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.ChangeType = entity.ChangeType(ct)
		list = append(list, &m)
	}
	return list, rows.Err()
}
