package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetByID obtiene un proveedor.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), is_active, created_at, updated_at
		FROM suppliers WHERE id = $1`, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// HasReferences indica si movimientos u órdenes de compra referencian al proveedor.
func (r *SupplierRepo) HasReferences(ctx context.Context, id string) (bool, error) {
	var referenced bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM stock_movements WHERE supplier_id = $1)
		    OR EXISTS (SELECT 1 FROM purchase_orders WHERE supplier_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("supplier references: %w", err)
	}
	return referenced, nil
}

// Delete elimina el proveedor.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proveedor %s referenciado", domain.ErrInvalidState, id)
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}
