package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo alertas de stock bajo (una por ítem, PK stock_item_id).
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador.
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

// Get obtiene la alerta del ítem.
func (r *StockAlertRepo) Get(ctx context.Context, stockItemID string) (*entity.StockAlert, error) {
	var a entity.StockAlert
	err := r.q.QueryRow(ctx, `
		SELECT stock_item_id, threshold, notified, created_at, updated_at
		FROM stock_alerts WHERE stock_item_id = $1`, stockItemID).Scan(
		&a.StockItemID, &a.Threshold, &a.Notified, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock alert: %w", err)
	}
	return &a, nil
}

// Create inserta la alerta; si ya existe devuelve domain.ErrAlreadyExists.
func (r *StockAlertRepo) Create(ctx context.Context, a *entity.StockAlert) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_alerts (stock_item_id, threshold, notified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.StockItemID, a.Threshold, a.Notified, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: alerta para %s", domain.ErrAlreadyExists, a.StockItemID)
		}
		return fmt.Errorf("insert stock alert: %w", err)
	}
	return nil
}

// Update actualiza umbral y bandera.
func (r *StockAlertRepo) Update(ctx context.Context, a *entity.StockAlert) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_alerts SET threshold = $2, notified = $3, updated_at = $4
		WHERE stock_item_id = $1`,
		a.StockItemID, a.Threshold, a.Notified, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock alert: %w", err)
	}
	return nil
}

// Delete elimina la alerta; false si no existía.
func (r *StockAlertRepo) Delete(ctx context.Context, stockItemID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_alerts WHERE stock_item_id = $1`, stockItemID)
	if err != nil {
		return false, fmt.Errorf("delete stock alert: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListNotified alertas activadas, las más recientes primero.
func (r *StockAlertRepo) ListNotified(ctx context.Context, limit, offset int) ([]*entity.StockAlert, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT stock_item_id, threshold, notified, created_at, updated_at
		FROM stock_alerts WHERE notified
		ORDER BY updated_at DESC, stock_item_id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.StockItemID, &a.Threshold, &a.Notified, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
