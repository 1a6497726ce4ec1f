package purchasing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Confirm DRAFT → CONFIRMED.
func (uc *OrderUseCase) Confirm(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, entity.POStatusConfirmed)
}

// Ship CONFIRMED → SHIPPED.
func (uc *OrderUseCase) Ship(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, entity.POStatusShipped)
}

// Cancel desde DRAFT, CONFIRMED o SHIPPED. Lo ya recibido queda en stock.
func (uc *OrderUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, entity.POStatusCancelled)
}

func (uc *OrderUseCase) transition(ctx context.Context, id, to string) (*dto.PurchaseOrderResponse, error) {
	var po *entity.PurchaseOrder
	var from string
	err := uc.txRunner.RunPurchasing(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.SequenceRepository) error {
		var err error
		po, err = orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
		}
		if !po.CanTransition(to) {
			return fmt.Errorf("%w: la orden %s no puede pasar de %s a %s", domain.ErrInvalidState, po.OrderNumber, po.Status, to)
		}
		from = po.Status
		now := uc.now()
		if err := orderRepo.UpdateStatus(ctx, po.ID, to, po.ReceivedDate, now); err != nil {
			return err
		}
		po.Status = to
		po.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("purchase_order_id", po.ID).
		Str("from", from).
		Str("to", to).
		Msg("orden de compra cambió de estado")
	return toPurchaseOrderResponse(po), nil
}
