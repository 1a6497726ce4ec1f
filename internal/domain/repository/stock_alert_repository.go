package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockAlertRepository define el puerto de persistencia de alertas de stock bajo.
type StockAlertRepository interface {
	Get(ctx context.Context, stockItemID string) (*entity.StockAlert, error)
	// Create devuelve domain.ErrAlreadyExists si el ítem ya tiene alerta.
	Create(ctx context.Context, alert *entity.StockAlert) error
	Update(ctx context.Context, alert *entity.StockAlert) error
	// Delete devuelve false si no había alerta.
	Delete(ctx context.Context, stockItemID string) (bool, error)
	ListNotified(ctx context.Context, limit, offset int) ([]*entity.StockAlert, error)
}
