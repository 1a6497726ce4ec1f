package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `id, product_id, variant_id, has_variants, quantity, updated_at`

func (r *StockItemRepo) scanOne(ctx context.Context, op, query string, args ...any) (*entity.StockItem, error) {
	var s entity.StockItem
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.ProductID, &s.VariantID, &s.HasVariants, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// GetByID obtiene un ítem por ID.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.scanOne(ctx, "get stock item",
		`SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1`, id)
}

// GetByRef obtiene un ítem por (producto, variante); variante nil = fila del producto.
func (r *StockItemRepo) GetByRef(ctx context.Context, ref entity.StockItemRef) (*entity.StockItem, error) {
	var variant *string
	if ref.IsVariant() {
		variant = ref.VariantID
	}
	return r.scanOne(ctx, "get stock item by ref",
		`SELECT `+stockItemColumns+` FROM stock_items
		WHERE product_id = $1 AND variant_id IS NOT DISTINCT FROM $2`, ref.ProductID, variant)
}

// GetForUpdate obtiene el ítem y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.scanOne(ctx, "get stock item for update",
		`SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1 FOR UPDATE`, id)
}

// UpdateQuantity persiste la nueva cantidad. El CHECK (quantity >= 0) de la tabla respalda la regla del dominio.
func (r *StockItemRepo) UpdateQuantity(ctx context.Context, id string, quantity int64, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_items SET quantity = $2, updated_at = $3 WHERE id = $1`, id, quantity, at)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock quantity: stock item %s no existe", id)
	}
	return nil
}
