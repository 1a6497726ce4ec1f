package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia de órdenes de compra y sus líneas.
// Los Get devuelven (nil, nil) si no existe.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera de la orden (SELECT FOR UPDATE) y carga sus líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id, status string, receivedDate *time.Time, at time.Time) error
	// ReplaceItems reemplaza las líneas y los totales de la orden.
	ReplaceItems(ctx context.Context, po *entity.PurchaseOrder) error
	GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error)
	// AddReceived suma qty a received_quantity sin superar quantity;
	// devuelve domain.ErrQuantityExceedsRemaining si la guarda no se cumple.
	AddReceived(ctx context.Context, itemID string, qty int64) error
}
