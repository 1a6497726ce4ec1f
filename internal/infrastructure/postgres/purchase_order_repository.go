package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra y sus líneas.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, order_number, supplier_id, status, order_date, expected_date, received_date,
	subtotal, tax, shipping, total, COALESCE(notes, ''), created_by, created_at, updated_at`

const purchaseOrderItemColumns = `id, purchase_order_id, position, stock_item_id, product_id, variant_id,
	quantity, received_quantity, unit_cost, line_total`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchaseOrder(row rowScanner, po *entity.PurchaseOrder) error {
	return row.Scan(
		&po.ID, &po.OrderNumber, &po.SupplierID, &po.Status, &po.OrderDate, &po.ExpectedDate, &po.ReceivedDate,
		&po.Subtotal, &po.Tax, &po.Shipping, &po.Total, &po.Notes, &po.CreatedBy, &po.CreatedAt, &po.UpdatedAt,
	)
}

func scanPurchaseOrderItem(row rowScanner, it *entity.PurchaseOrderItem) error {
	return row.Scan(
		&it.ID, &it.PurchaseOrderID, &it.Position, &it.StockItemID, &it.ProductID, &it.VariantID,
		&it.Quantity, &it.ReceivedQuantity, &it.UnitCost, &it.LineTotal,
	)
}

// Create inserta cabecera y líneas. Usar dentro de una transacción.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (
			id, order_number, supplier_id, status, order_date, expected_date, received_date,
			subtotal, tax, shipping, total, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		po.ID, po.OrderNumber, po.SupplierID, po.Status, po.OrderDate, po.ExpectedDate, po.ReceivedDate,
		po.Subtotal, po.Tax, po.Shipping, po.Total, po.Notes, po.CreatedBy, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: orden %s", domain.ErrAlreadyExists, po.OrderNumber)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return r.insertItems(ctx, po)
}

func (r *PurchaseOrderRepo) insertItems(ctx context.Context, po *entity.PurchaseOrder) error {
	for _, it := range po.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (
				id, purchase_order_id, position, stock_item_id, product_id, variant_id,
				quantity, received_quantity, unit_cost, line_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, po.ID, it.Position, it.StockItemID, it.ProductID, it.VariantID,
			it.Quantity, it.ReceivedQuantity, it.UnitCost, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var po entity.PurchaseOrder
	if err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id), &po); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	items, err := r.items(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return &po, nil
}

func (r *PurchaseOrderRepo) items(ctx context.Context, orderID string) ([]entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+purchaseOrderItemColumns+`
		FROM purchase_order_items WHERE purchase_order_id = $1
		ORDER BY position, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()

	var list []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := scanPurchaseOrderItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera y carga las líneas.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

// List lista cabeceras (sin líneas), más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+purchaseOrderColumns+`
		FROM purchase_orders
		WHERE ($1::text = '' OR status = $1)
		ORDER BY order_date DESC, order_number DESC
		LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := scanPurchaseOrder(rows, &po); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado (y la fecha de recepción si aplica).
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id, status string, receivedDate *time.Time, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, received_date = $3, updated_at = $4
		WHERE id = $1`, id, status, receivedDate, at)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// ReplaceItems borra e inserta las líneas y actualiza los totales.
func (r *PurchaseOrderRepo) ReplaceItems(ctx context.Context, po *entity.PurchaseOrder) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_items WHERE purchase_order_id = $1`, po.ID); err != nil {
		return fmt.Errorf("delete purchase order items: %w", err)
	}
	if err := r.insertItems(ctx, po); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET subtotal = $2, total = $3, updated_at = $4 WHERE id = $1`,
		po.ID, po.Subtotal, po.Total, po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order totals: %w", err)
	}
	return nil
}

// GetItemForUpdate bloquea la línea (SELECT FOR UPDATE).
func (r *PurchaseOrderRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	var it entity.PurchaseOrderItem
	row := r.q.QueryRow(ctx, `
		SELECT `+purchaseOrderItemColumns+`
		FROM purchase_order_items WHERE id = $1 FOR UPDATE`, itemID)
	if err := scanPurchaseOrderItem(row, &it); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order item for update: %w", err)
	}
	return &it, nil
}

// AddReceived suma qty a received_quantity; la condición en el WHERE impide superar quantity.
func (r *PurchaseOrderRepo) AddReceived(ctx context.Context, itemID string, qty int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_order_items SET received_quantity = received_quantity + $2
		WHERE id = $1 AND $2 >= 0 AND received_quantity + $2 <= quantity`, itemID, qty)
	if err != nil {
		return fmt.Errorf("update received quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrQuantityExceedsRemaining, itemID)
	}
	return nil
}
